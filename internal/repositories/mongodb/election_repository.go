package mongodb

import (
	"context"
	"time"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ElectionRepository implements the interface
var _ repositories.ElectionRepository = (*ElectionRepository)(nil)

// ElectionRepository handles MongoDB operations for Election
type ElectionRepository struct {
	collection *mongo.Collection
}

// NewElectionRepository creates a new ElectionRepository
func NewElectionRepository(db *mongo.Database) *ElectionRepository {
	return &ElectionRepository{
		collection: db.Collection("elections"),
	}
}

// Create inserts a new election
func (r *ElectionRepository) Create(ctx context.Context, election *models.Election) error {
	election.ID = primitive.NewObjectID()
	election.CreatedAt = time.Now()
	election.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, election)
	return err
}

// FindByID finds an election by ID
func (r *ElectionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Election, error) {
	var election models.Election
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&election)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &election, nil
}

// FindByStatus finds elections by lifecycle status, newest first
func (r *ElectionRepository) FindByStatus(ctx context.Context, status models.ElectionStatus) ([]*models.Election, error) {
	var elections []*models.Election
	filter := bson.M{"status": status}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &elections); err != nil {
		return nil, err
	}
	if elections == nil {
		elections = []*models.Election{}
	}
	return elections, nil
}

// FindAll retrieves all elections, newest first
func (r *ElectionRepository) FindAll(ctx context.Context) ([]*models.Election, error) {
	var elections []*models.Election
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &elections); err != nil {
		return nil, err
	}
	if elections == nil {
		elections = []*models.Election{}
	}
	return elections, nil
}

// Update updates an existing election
func (r *ElectionRepository) Update(ctx context.Context, election *models.Election) error {
	election.UpdatedAt = time.Now()
	filter := bson.M{"_id": election.ID}
	update := bson.M{"$set": election}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
