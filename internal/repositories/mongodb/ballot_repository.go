package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure BallotRepository implements the interface
var _ repositories.BallotRepository = (*BallotRepository)(nil)

// BallotRepository handles MongoDB operations for Ballot
type BallotRepository struct {
	collection *mongo.Collection
}

// NewBallotRepository creates a new BallotRepository. A unique index on
// (electionId, voterKey) backs up the hasVoted compare-and-set: even if the
// roster flag were ever corrupted, a second ballot for the same voter key
// cannot be inserted.
func NewBallotRepository(db *mongo.Database) *BallotRepository {
	collection := db.Collection("ballots")
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "electionId", Value: 1}, {Key: "voterKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = collection.Indexes().CreateOne(ctx, indexModel)
	return &BallotRepository{
		collection: collection,
	}
}

// Create inserts a new ballot
func (r *BallotRepository) Create(ctx context.Context, ballot *models.Ballot) error {
	if ballot.ID == "" {
		ballot.ID = uuid.NewString()
	}
	if ballot.CastAt.IsZero() {
		ballot.CastAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, ballot)
	return err
}

// FindByElectionID retrieves all ballots of an election in a single query
// pass, so tabulation reads a consistent snapshot without locking the store.
func (r *BallotRepository) FindByElectionID(ctx context.Context, electionID primitive.ObjectID) ([]*models.Ballot, error) {
	var ballots []*models.Ballot
	filter := bson.M{"electionId": electionID}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &ballots); err != nil {
		return nil, err
	}
	if ballots == nil {
		ballots = []*models.Ballot{}
	}
	return ballots, nil
}

// CountByElectionID counts the ballots cast in an election
func (r *BallotRepository) CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"electionId": electionID})
}
