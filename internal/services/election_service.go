package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"github.com/ktuacm/clubportal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// minSuspensionReasonLen is the minimum length of a suspension reason after
// trimming.
const minSuspensionReasonLen = 10

// Compile-time check to ensure ElectionServiceImpl implements ElectionService
var _ ElectionService = (*ElectionServiceImpl)(nil)

// ElectionServiceImpl implements the election lifecycle state machine and
// the administrative operations around it. All transitions are re-checked
// here, never trusted from the UI, so concurrent or out-of-band requests
// cannot skip a guard.
type ElectionServiceImpl struct {
	electionRepo  repositories.ElectionRepository
	candidateRepo repositories.CandidateRepository
	voterRepo     repositories.VoterRepository
}

// NewElectionService creates a new ElectionServiceImpl
func NewElectionService(
	electionRepo repositories.ElectionRepository,
	candidateRepo repositories.CandidateRepository,
	voterRepo repositories.VoterRepository,
) *ElectionServiceImpl {
	return &ElectionServiceImpl{
		electionRepo:  electionRepo,
		candidateRepo: candidateRepo,
		voterRepo:     voterRepo,
	}
}

// CreateElection creates a new election in the DRAFT state
func (s *ElectionServiceImpl) CreateElection(ctx context.Context, title, description string, useRankedChoice bool, createdBy string) (*models.Election, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidTransition)
	}

	election := &models.Election{
		Title:           title,
		Description:     strings.TrimSpace(description),
		Status:          models.ElectionStatusDraft,
		UseRankedChoice: useRankedChoice,
		CreatedBy:       createdBy,
	}
	if err := s.electionRepo.Create(ctx, election); err != nil {
		slog.Error("Failed to create election", "error", err)
		return nil, fmt.Errorf("failed to create election: %w", err)
	}

	slog.Info("Election created", "electionId", election.ID, "title", title)
	return election, nil
}

// UpdateElection updates title/description/settings while in DRAFT
func (s *ElectionServiceImpl) UpdateElection(ctx context.Context, id primitive.ObjectID, title, description string, useRankedChoice bool) (*models.Election, error) {
	election, err := s.findElection(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionStatusDraft {
		return nil, ErrImmutableElection
	}

	title = strings.TrimSpace(title)
	if title != "" {
		election.Title = title
	}
	election.Description = strings.TrimSpace(description)
	election.UseRankedChoice = useRankedChoice

	if err := s.electionRepo.Update(ctx, election); err != nil {
		slog.Error("Failed to update election", "error", err, "electionId", id)
		return nil, fmt.Errorf("failed to update election: %w", err)
	}
	return election, nil
}

// GetElection retrieves an election with its candidates
func (s *ElectionServiceImpl) GetElection(ctx context.Context, id primitive.ObjectID) (*models.Election, []*models.Candidate, error) {
	election, err := s.findElection(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	candidates, err := s.candidateRepo.FindByElectionID(ctx, id)
	if err != nil {
		slog.Error("Failed to load candidates", "error", err, "electionId", id)
		return nil, nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	return election, candidates, nil
}

// ListElections retrieves elections; activeOnly restricts to ACTIVE ones
func (s *ElectionServiceImpl) ListElections(ctx context.Context, activeOnly bool) ([]*models.Election, error) {
	if activeOnly {
		return s.electionRepo.FindByStatus(ctx, models.ElectionStatusActive)
	}
	return s.electionRepo.FindAll(ctx)
}

// AddCandidate adds a candidate to a DRAFT election. Candidate identity is
// frozen at activation so stored ballots always remain valid.
func (s *ElectionServiceImpl) AddCandidate(ctx context.Context, electionID primitive.ObjectID, name, bio, photoURL string, displayOrder int) (*models.Candidate, error) {
	election, err := s.findElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionStatusDraft {
		return nil, ErrImmutableElection
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: candidate name is required", ErrInvalidTransition)
	}

	candidate := &models.Candidate{
		ElectionID:   electionID,
		Name:         name,
		Bio:          strings.TrimSpace(bio),
		PhotoURL:     strings.TrimSpace(photoURL),
		DisplayOrder: displayOrder,
	}
	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		slog.Error("Failed to create candidate", "error", err, "electionId", electionID)
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return candidate, nil
}

// RemoveCandidate removes a candidate from a DRAFT election
func (s *ElectionServiceImpl) RemoveCandidate(ctx context.Context, electionID, candidateID primitive.ObjectID) error {
	election, err := s.findElection(ctx, electionID)
	if err != nil {
		return err
	}
	if election.Status != models.ElectionStatusDraft {
		return ErrImmutableElection
	}

	candidate, err := s.candidateRepo.FindByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find candidate: %w", err)
	}
	if candidate.ElectionID != electionID {
		return ErrNotFound
	}
	return s.candidateRepo.Delete(ctx, candidateID)
}

// ImportRoster bulk-loads eligible voters from CSV into a DRAFT election
func (s *ElectionServiceImpl) ImportRoster(ctx context.Context, electionID primitive.ObjectID, csv io.Reader) (*utils.RosterImportResult, error) {
	election, err := s.findElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionStatusDraft {
		return nil, ErrImmutableElection
	}

	voters, result, err := utils.ParseRoster(csv, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if err := s.voterRepo.CreateMany(ctx, voters); err != nil {
		slog.Error("Failed to store roster", "error", err, "electionId", electionID)
		return nil, fmt.Errorf("failed to store roster: %w", err)
	}

	slog.Info("Roster imported", "electionId", electionID, "imported", result.Imported, "errors", len(result.Errors))
	return result, nil
}

// CountVoters returns the roster size of an election
func (s *ElectionServiceImpl) CountVoters(ctx context.Context, electionID primitive.ObjectID) (int64, error) {
	return s.voterRepo.CountByElectionID(ctx, electionID)
}

// Activate transitions DRAFT -> ACTIVE. The setup guard requires at least
// two candidates and a non-empty roster.
func (s *ElectionServiceImpl) Activate(ctx context.Context, electionID primitive.ObjectID) (*models.Election, error) {
	election, err := s.findElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionStatusDraft {
		return nil, ErrInvalidTransition
	}

	candidateCount, err := s.candidateRepo.CountByElectionID(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	voterCount, err := s.voterRepo.CountByElectionID(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count roster: %w", err)
	}
	if candidateCount < 2 || voterCount < 1 {
		return nil, ErrInsufficientSetup
	}

	election.Status = models.ElectionStatusActive
	election.ActivatedAt = time.Now()
	if err := s.electionRepo.Update(ctx, election); err != nil {
		slog.Error("Failed to activate election", "error", err, "electionId", electionID)
		return nil, fmt.Errorf("failed to activate election: %w", err)
	}

	slog.Info("Election activated", "electionId", electionID, "candidates", candidateCount, "voters", voterCount)
	return election, nil
}

// Suspend pauses voting on an ACTIVE election. Prior ballots remain valid;
// the suspension and its reason are visible to voters attempting to cast.
func (s *ElectionServiceImpl) Suspend(ctx context.Context, electionID primitive.ObjectID, reason string) (*models.Election, error) {
	election, err := s.findElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionStatusActive || election.IsSuspended {
		return nil, ErrInvalidTransition
	}

	reason = strings.TrimSpace(reason)
	if len(reason) < minSuspensionReasonLen {
		return nil, ErrInvalidSuspensionReason
	}

	election.IsSuspended = true
	election.SuspensionReason = reason
	if err := s.electionRepo.Update(ctx, election); err != nil {
		slog.Error("Failed to suspend election", "error", err, "electionId", electionID)
		return nil, fmt.Errorf("failed to suspend election: %w", err)
	}

	slog.Warn("Election suspended", "electionId", electionID, "reason", reason)
	return election, nil
}

// Resume lifts a suspension and clears its reason
func (s *ElectionServiceImpl) Resume(ctx context.Context, electionID primitive.ObjectID) (*models.Election, error) {
	election, err := s.findElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionStatusActive || !election.IsSuspended {
		return nil, ErrInvalidTransition
	}

	election.IsSuspended = false
	election.SuspensionReason = ""
	if err := s.electionRepo.Update(ctx, election); err != nil {
		slog.Error("Failed to resume election", "error", err, "electionId", electionID)
		return nil, fmt.Errorf("failed to resume election: %w", err)
	}

	slog.Info("Election resumed", "electionId", electionID)
	return election, nil
}

// Complete transitions ACTIVE -> COMPLETED. Terminal: candidate and voter
// sets are frozen, voting is permanently blocked, results become public.
func (s *ElectionServiceImpl) Complete(ctx context.Context, electionID primitive.ObjectID) (*models.Election, error) {
	election, err := s.findElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionStatusActive {
		return nil, ErrInvalidTransition
	}

	election.Status = models.ElectionStatusCompleted
	election.IsSuspended = false
	election.SuspensionReason = ""
	election.CompletedAt = time.Now()
	if err := s.electionRepo.Update(ctx, election); err != nil {
		slog.Error("Failed to complete election", "error", err, "electionId", electionID)
		return nil, fmt.Errorf("failed to complete election: %w", err)
	}

	slog.Info("Election completed", "electionId", electionID)
	return election, nil
}

// GuardVoting is the single state-machine check consulted on every
// verification and submission call. It re-reads the election so an admin
// completing or suspending it mid-vote is observed immediately.
func (s *ElectionServiceImpl) GuardVoting(ctx context.Context, electionID primitive.ObjectID) (*models.Election, error) {
	election, err := s.findElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if !election.VotingOpen() {
		return nil, ErrElectionNotActive
	}
	return election, nil
}

func (s *ElectionServiceImpl) findElection(ctx context.Context, id primitive.ObjectID) (*models.Election, error) {
	election, err := s.electionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find election: %w", err)
	}
	return election, nil
}
