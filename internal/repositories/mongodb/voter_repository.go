package mongodb

import (
	"context"
	"time"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure VoterRepository implements the interface
var _ repositories.VoterRepository = (*VoterRepository)(nil)

// VoterRepository handles MongoDB operations for the eligibility roster
type VoterRepository struct {
	collection *mongo.Collection
}

// NewVoterRepository creates a new VoterRepository
func NewVoterRepository(db *mongo.Database) *VoterRepository {
	return &VoterRepository{
		collection: db.Collection("voters"),
	}
}

// CreateMany inserts a batch of roster entries
func (r *VoterRepository) CreateMany(ctx context.Context, voters []*models.Voter) error {
	if len(voters) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(voters))
	now := time.Now()
	for _, voter := range voters {
		voter.ID = primitive.NewObjectID()
		if voter.CreatedAt.IsZero() {
			voter.CreatedAt = now
		}
		voter.UpdatedAt = now
		docs = append(docs, voter)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByStudentNo finds a roster entry by election and student number
func (r *VoterRepository) FindByStudentNo(ctx context.Context, electionID primitive.ObjectID, studentNo string) (*models.Voter, error) {
	var voter models.Voter
	filter := bson.M{"electionId": electionID, "studentNo": studentNo}
	err := r.collection.FindOne(ctx, filter).Decode(&voter)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &voter, nil
}

// MarkVoted flips hasVoted from false to true as a single atomic update.
// The hasVoted: false filter makes this a compare-and-set: only one of any
// number of concurrent casting attempts can match. Returns
// mongo.ErrNoDocuments when the voter is missing or has already voted.
func (r *VoterRepository) MarkVoted(ctx context.Context, electionID primitive.ObjectID, studentNo string) error {
	filter := bson.M{"electionId": electionID, "studentNo": studentNo, "hasVoted": false}
	update := bson.M{"$set": bson.M{"hasVoted": true, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UnmarkVoted reverts hasVoted to false. Only used to roll back MarkVoted
// when the subsequent ballot write fails.
func (r *VoterRepository) UnmarkVoted(ctx context.Context, electionID primitive.ObjectID, studentNo string) error {
	filter := bson.M{"electionId": electionID, "studentNo": studentNo, "hasVoted": true}
	update := bson.M{"$set": bson.M{"hasVoted": false, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountByElectionID counts the roster entries of an election
func (r *VoterRepository) CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"electionId": electionID})
}
