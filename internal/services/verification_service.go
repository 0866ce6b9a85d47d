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
	"github.com/ktuacm/clubportal-backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure VerificationServiceImpl implements VerificationService
var _ VerificationService = (*VerificationServiceImpl)(nil)

// VerificationServiceImpl implements the voter verification protocol:
// roster matching, one-time code issuance with server-side expiry, and code
// checking. Codes are the authorization token for ballot submission and are
// consumed there, not here.
type VerificationServiceImpl struct {
	elections  ElectionService
	voterRepo  repositories.VoterRepository
	challenges repositories.ChallengeStore
	mailer     mailer.Mailer
	codeLength int
	codeTTL    time.Duration
}

// NewVerificationService creates a new VerificationServiceImpl
func NewVerificationService(
	elections ElectionService,
	voterRepo repositories.VoterRepository,
	challenges repositories.ChallengeStore,
	m mailer.Mailer,
	codeLength int,
	codeTTL time.Duration,
) *VerificationServiceImpl {
	return &VerificationServiceImpl{
		elections:  elections,
		voterRepo:  voterRepo,
		challenges: challenges,
		mailer:     m,
		codeLength: codeLength,
		codeTTL:    codeTTL,
	}
}

// RequestCode matches the claimed identity against the roster, issues a
// fresh one-time code (replacing any prior unconsumed one for the same
// voter) and emails it. The returned value is the voter's registered email
// in masked form; the raw address is never echoed back.
func (s *VerificationServiceImpl) RequestCode(ctx context.Context, electionID primitive.ObjectID, studentNo, email string) (string, error) {
	election, err := s.elections.GuardVoting(ctx, electionID)
	if err != nil {
		return "", err
	}

	studentNo = utils.NormalizeIdentity(studentNo)
	email = utils.NormalizeIdentity(email)

	voter, err := s.voterRepo.FindByStudentNo(ctx, electionID, studentNo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotEligible
		}
		slog.Error("Failed to look up roster entry", "error", err, "electionId", electionID)
		return "", fmt.Errorf("failed to look up roster entry: %w", err)
	}
	if utils.NormalizeIdentity(voter.Email) != email {
		return "", ErrNotEligible
	}
	if voter.HasVoted {
		return "", ErrAlreadyVoted
	}

	code, err := utils.GenerateNumericCode(s.codeLength)
	if err != nil {
		slog.Error("Failed to generate verification code", "error", err)
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := time.Now()
	s.challenges.Put(electionID, studentNo, &models.VerificationChallenge{
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.codeTTL),
	})

	if err := s.mailer.SendVerificationCode(voter.Email, election.Title, code, s.codeTTL); err != nil {
		slog.Error("Failed to dispatch verification code", "error", err, "electionId", electionID, "voter", utils.MaskEmail(voter.Email))
		return "", fmt.Errorf("failed to send verification code: %w", err)
	}

	slog.Info("Verification code issued", "electionId", electionID, "voter", utils.MaskEmail(voter.Email))
	return utils.MaskEmail(voter.Email), nil
}

// VerifyCode checks a submitted code against the stored challenge without
// consuming it. Successful verification does not cast a vote; the code is
// re-checked and consumed at submission time.
func (s *VerificationServiceImpl) VerifyCode(ctx context.Context, electionID primitive.ObjectID, studentNo, code string) error {
	if _, err := s.elections.GuardVoting(ctx, electionID); err != nil {
		return err
	}

	studentNo = utils.NormalizeIdentity(studentNo)
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
	return nil
}
