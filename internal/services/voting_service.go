package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"github.com/ktuacm/clubportal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure VotingServiceImpl implements VotingService
var _ VotingService = (*VotingServiceImpl)(nil)

// VotingServiceImpl implements ballot submission. The one-time code is the
// real authorization token for the write: it is re-validated server-side on
// every submission regardless of what the client UI claims, and consumed
// exactly once on success.
type VotingServiceImpl struct {
	elections     ElectionService
	candidateRepo repositories.CandidateRepository
	voterRepo     repositories.VoterRepository
	ballotRepo    repositories.BallotRepository
	challenges    repositories.ChallengeStore
}

// NewVotingService creates a new VotingServiceImpl
func NewVotingService(
	elections ElectionService,
	candidateRepo repositories.CandidateRepository,
	voterRepo repositories.VoterRepository,
	ballotRepo repositories.BallotRepository,
	challenges repositories.ChallengeStore,
) *VotingServiceImpl {
	return &VotingServiceImpl{
		elections:     elections,
		candidateRepo: candidateRepo,
		voterRepo:     voterRepo,
		ballotRepo:    ballotRepo,
		challenges:    challenges,
	}
}

// SubmitBallot validates the submission end to end, then applies it as an
// atomic unit: consume the one-time code, compare-and-set hasVoted, insert
// the ballot. Validation failures leave no state behind; a storage failure
// after the compare-and-set rolls hasVoted back so the voter can retry.
func (s *VotingServiceImpl) SubmitBallot(ctx context.Context, electionID primitive.ObjectID, studentNo, code string, rankings []primitive.ObjectID) error {
	// Lifecycle guard, re-checked at write time: an admin may have
	// suspended or completed the election after the voter verified.
	election, err := s.elections.GuardVoting(ctx, electionID)
	if err != nil {
		return err
	}

	studentNo = utils.NormalizeIdentity(studentNo)

	voter, err := s.voterRepo.FindByStudentNo(ctx, electionID, studentNo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotEligible
		}
		slog.Error("Failed to look up roster entry", "error", err, "electionId", electionID)
		return fmt.Errorf("failed to look up roster entry: %w", err)
	}
	if voter.HasVoted {
		return ErrAlreadyVoted
	}

	candidates, err := s.candidateRepo.FindByElectionID(ctx, electionID)
	if err != nil {
		slog.Error("Failed to load candidates", "error", err, "electionId", electionID)
		return fmt.Errorf("failed to load candidates: %w", err)
	}
	if err := validateRankings(election, candidates, rankings); err != nil {
		return err
	}

	// Check the code before touching any state so an invalid ballot or a
	// typo cannot burn the challenge.
	challenge, ok := s.challenges.Get(electionID, studentNo)
	if !ok {
		return ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		return ErrInvalidCode
	}
	if challenge.Expired(time.Now()) {
		return ErrCodeExpired
	}

	// Consume the challenge. The store makes this single-use: a concurrent
	// submission with the same code loses the race here.
	consumed, ok := s.challenges.Consume(electionID, studentNo)
	if !ok {
		return ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(consumed.Code), []byte(code)) != 1 {
		// A re-requested code replaced the one just checked. Restore it and
		// reject this submission.
		s.challenges.Put(electionID, studentNo, consumed)
		return ErrInvalidCode
	}

	// Compare-and-set hasVoted. This is the linearization point for the
	// one-vote invariant.
	if err := s.voterRepo.MarkVoted(ctx, electionID, studentNo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAlreadyVoted
		}
		slog.Error("Failed to mark voter as voted", "error", err, "electionId", electionID)
		return fmt.Errorf("failed to mark voter as voted: %w", err)
	}

	ballot := &models.Ballot{
		ElectionID: electionID,
		VoterKey:   models.VoterKey(electionID, studentNo),
		Rankings:   rankings,
		CastAt:     time.Now(),
	}
	if err := s.ballotRepo.Create(ctx, ballot); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// The unique (electionId, voterKey) index caught a ballot that
			// already exists; keep hasVoted set.
			return ErrAlreadyVoted
		}
		// Losing a cast ballot is unacceptable: fail loudly and revert the
		// hasVoted flag so the voter can request a new code and retry.
		slog.Error("Failed to store ballot, rolling back hasVoted", "error", err, "electionId", electionID)
		if rbErr := s.voterRepo.UnmarkVoted(ctx, electionID, studentNo); rbErr != nil {
			slog.Error("CRITICAL: failed to roll back hasVoted after ballot write failure", "error", rbErr, "electionId", electionID, "voter", utils.MaskEmail(voter.Email))
		}
		return fmt.Errorf("failed to store ballot: %w", err)
	}

	slog.Info("Ballot cast", "electionId", electionID, "ballotId", ballot.ID)
	return nil
}

// validateRankings checks the submitted rankings against the election's
// candidate set. With ranked choice enabled the ballot must be a strict
// full permutation of all candidates; with it disabled the ballot is a
// single choice of one valid candidate.
func validateRankings(election *models.Election, candidates []*models.Candidate, rankings []primitive.ObjectID) error {
	valid := make(map[primitive.ObjectID]bool, len(candidates))
	for _, c := range candidates {
		valid[c.ID] = true
	}

	if !election.UseRankedChoice {
		if len(rankings) != 1 || !valid[rankings[0]] {
			return ErrInvalidBallot
		}
		return nil
	}

	if len(rankings) != len(candidates) {
		return ErrInvalidBallot
	}
	seen := make(map[primitive.ObjectID]bool, len(rankings))
	for _, id := range rankings {
		if !valid[id] || seen[id] {
			return ErrInvalidBallot
		}
		seen[id] = true
	}
	return nil
}
