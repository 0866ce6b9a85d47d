package services

import (
	"context"
	"io"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ElectionService defines the interface for election administration and the
// lifecycle state machine
type ElectionService interface {
	// CreateElection creates a new election in the DRAFT state
	CreateElection(ctx context.Context, title, description string, useRankedChoice bool, createdBy string) (*models.Election, error)

	// UpdateElection updates title/description/settings while in DRAFT
	UpdateElection(ctx context.Context, id primitive.ObjectID, title, description string, useRankedChoice bool) (*models.Election, error)

	// GetElection retrieves an election with its candidates
	GetElection(ctx context.Context, id primitive.ObjectID) (*models.Election, []*models.Candidate, error)

	// ListElections retrieves elections; activeOnly restricts to ACTIVE ones
	ListElections(ctx context.Context, activeOnly bool) ([]*models.Election, error)

	// AddCandidate adds a candidate to a DRAFT election
	AddCandidate(ctx context.Context, electionID primitive.ObjectID, name, bio, photoURL string, displayOrder int) (*models.Candidate, error)

	// RemoveCandidate removes a candidate from a DRAFT election
	RemoveCandidate(ctx context.Context, electionID, candidateID primitive.ObjectID) error

	// ImportRoster bulk-loads eligible voters from CSV into a DRAFT election
	ImportRoster(ctx context.Context, electionID primitive.ObjectID, csv io.Reader) (*utils.RosterImportResult, error)

	// CountVoters returns the roster size of an election
	CountVoters(ctx context.Context, electionID primitive.ObjectID) (int64, error)

	// Activate transitions DRAFT -> ACTIVE after the setup guard passes
	Activate(ctx context.Context, electionID primitive.ObjectID) (*models.Election, error)

	// Suspend pauses voting on an ACTIVE election with a reason
	Suspend(ctx context.Context, electionID primitive.ObjectID, reason string) (*models.Election, error)

	// Resume lifts a suspension and clears its reason
	Resume(ctx context.Context, electionID primitive.ObjectID) (*models.Election, error)

	// Complete transitions ACTIVE -> COMPLETED; terminal
	Complete(ctx context.Context, electionID primitive.ObjectID) (*models.Election, error)

	// GuardVoting verifies that ballots may be cast in the election right
	// now. Every verification and submission path calls this.
	GuardVoting(ctx context.Context, electionID primitive.ObjectID) (*models.Election, error)
}

// VerificationService defines the interface for the voter verification
// protocol
type VerificationService interface {
	// RequestCode checks eligibility and emails a one-time code; returns the
	// voter's masked email address
	RequestCode(ctx context.Context, electionID primitive.ObjectID, studentNo, email string) (string, error)

	// VerifyCode checks a submitted code without consuming it
	VerifyCode(ctx context.Context, electionID primitive.ObjectID, studentNo, code string) error
}

// VotingService defines the interface for ballot submission
type VotingService interface {
	// SubmitBallot validates and atomically records a voter's ranking
	SubmitBallot(ctx context.Context, electionID primitive.ObjectID, studentNo, code string, rankings []primitive.ObjectID) error
}

// TabulationService defines the interface for computing election results
type TabulationService interface {
	// Tabulate recomputes the result from the current ballot snapshot
	Tabulate(ctx context.Context, electionID primitive.ObjectID) (*models.TabulationResult, error)
}

// AuthService defines the interface for administrator authentication
type AuthService interface {
	// Login verifies credentials and returns a signed JWT
	Login(ctx context.Context, req *models.LoginRequest) (string, error)

	// Register creates an administrator account with a hashed password
	Register(ctx context.Context, email, password, role string) (*models.AdminUser, error)
}
