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

// Compile-time check to ensure CandidateRepository implements the interface
var _ repositories.CandidateRepository = (*CandidateRepository)(nil)

// CandidateRepository handles MongoDB operations for Candidate
type CandidateRepository struct {
	collection *mongo.Collection
}

// NewCandidateRepository creates a new CandidateRepository
func NewCandidateRepository(db *mongo.Database) *CandidateRepository {
	return &CandidateRepository{
		collection: db.Collection("candidates"),
	}
}

// Create inserts a new candidate
func (r *CandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	candidate.ID = primitive.NewObjectID()
	candidate.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, candidate)
	return err
}

// FindByID finds a candidate by ID
func (r *CandidateRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Candidate, error) {
	var candidate models.Candidate
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&candidate)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &candidate, nil
}

// FindByElectionID finds all candidates of an election in display order
func (r *CandidateRepository) FindByElectionID(ctx context.Context, electionID primitive.ObjectID) ([]*models.Candidate, error) {
	var candidates []*models.Candidate
	filter := bson.M{"electionId": electionID}
	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &candidates); err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []*models.Candidate{}
	}
	return candidates, nil
}

// Delete deletes a candidate by ID
func (r *CandidateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	_, err := r.collection.DeleteOne(ctx, filter)
	return err
}

// CountByElectionID counts the candidates of an election
func (r *CandidateRepository) CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"electionId": electionID})
}
