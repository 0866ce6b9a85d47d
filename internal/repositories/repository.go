package repositories

import (
	"context"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ElectionRepository defines the interface for election data operations
type ElectionRepository interface {
	Create(ctx context.Context, election *models.Election) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Election, error)
	FindByStatus(ctx context.Context, status models.ElectionStatus) ([]*models.Election, error)
	FindAll(ctx context.Context) ([]*models.Election, error)
	Update(ctx context.Context, election *models.Election) error
}

// CandidateRepository defines the interface for candidate data operations
type CandidateRepository interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Candidate, error)
	FindByElectionID(ctx context.Context, electionID primitive.ObjectID) ([]*models.Candidate, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error)
}

// VoterRepository defines the interface for eligibility roster operations.
// MarkVoted must be an atomic compare-and-set on hasVoted == false: it is the
// linearization point that keeps a voter from casting two ballots through
// concurrent requests. It returns mongo.ErrNoDocuments when the voter is
// missing or has already voted.
type VoterRepository interface {
	CreateMany(ctx context.Context, voters []*models.Voter) error
	FindByStudentNo(ctx context.Context, electionID primitive.ObjectID, studentNo string) (*models.Voter, error)
	MarkVoted(ctx context.Context, electionID primitive.ObjectID, studentNo string) error
	UnmarkVoted(ctx context.Context, electionID primitive.ObjectID, studentNo string) error
	CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error)
}

// BallotRepository defines the interface for ballot data operations
type BallotRepository interface {
	Create(ctx context.Context, ballot *models.Ballot) error
	FindByElectionID(ctx context.Context, electionID primitive.ObjectID) ([]*models.Ballot, error)
	CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error)
}

// AdminUserRepository defines the interface for administrator accounts
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}

// ChallengeStore holds ephemeral one-time verification codes keyed by
// (electionId, studentNo). Implementations must enforce expiry server-side
// and make Consume single-use under concurrent calls. Put replaces any prior
// unconsumed challenge for the same key.
type ChallengeStore interface {
	Put(electionID primitive.ObjectID, studentNo string, challenge *models.VerificationChallenge)
	Get(electionID primitive.ObjectID, studentNo string) (*models.VerificationChallenge, bool)
	Consume(electionID primitive.ObjectID, studentNo string) (*models.VerificationChallenge, bool)
}
