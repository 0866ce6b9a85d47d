package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testRoster = `studentNo,fullName,department,phone,email
20210101,Deniz Kaya,Computer Engineering,+905550000001,deniz@ktu.edu.tr
20210102,Ece Demir,Electrical Engineering,+905550000002,ece@ktu.edu.tr
`

type electionFixture struct {
	electionRepo  *fakeElectionRepo
	candidateRepo *fakeCandidateRepo
	voterRepo     *fakeVoterRepo
	elections     *ElectionServiceImpl
}

func newElectionFixture(t *testing.T) *electionFixture {
	t.Helper()
	electionRepo := newFakeElectionRepo()
	candidateRepo := newFakeCandidateRepo()
	voterRepo := newFakeVoterRepo()
	return &electionFixture{
		electionRepo:  electionRepo,
		candidateRepo: candidateRepo,
		voterRepo:     voterRepo,
		elections:     NewElectionService(electionRepo, candidateRepo, voterRepo),
	}
}

// readyElection creates a draft election with enough setup to activate.
func (f *electionFixture) readyElection(t *testing.T) *models.Election {
	t.Helper()
	ctx := context.Background()

	election, err := f.elections.CreateElection(ctx, "Board Election", "Annual board election", true, "admin")
	require.NoError(t, err)

	for i, name := range []string{"Aylin", "Berk"} {
		_, err := f.elections.AddCandidate(ctx, election.ID, name, "", "", i)
		require.NoError(t, err)
	}
	_, err = f.elections.ImportRoster(ctx, election.ID, strings.NewReader(testRoster))
	require.NoError(t, err)
	return election
}

func TestCreateElectionStartsDraft(t *testing.T) {
	f := newElectionFixture(t)

	election, err := f.elections.CreateElection(context.Background(), "  Board Election ", "desc", true, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.ElectionStatusDraft, election.Status)
	assert.Equal(t, "Board Election", election.Title)
	assert.False(t, election.IsSuspended)
}

func TestCreateElectionRequiresTitle(t *testing.T) {
	f := newElectionFixture(t)

	_, err := f.elections.CreateElection(context.Background(), "   ", "", true, "admin")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestActivateRequiresSetup(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()

	election, err := f.elections.CreateElection(ctx, "Board Election", "", true, "admin")
	require.NoError(t, err)

	// No candidates, no roster.
	_, err = f.elections.Activate(ctx, election.ID)
	assert.ErrorIs(t, err, ErrInsufficientSetup)

	// One candidate is still not a race.
	_, err = f.elections.AddCandidate(ctx, election.ID, "Aylin", "", "", 0)
	require.NoError(t, err)
	_, err = f.elections.ImportRoster(ctx, election.ID, strings.NewReader(testRoster))
	require.NoError(t, err)
	_, err = f.elections.Activate(ctx, election.ID)
	assert.ErrorIs(t, err, ErrInsufficientSetup)

	_, err = f.elections.AddCandidate(ctx, election.ID, "Berk", "", "", 1)
	require.NoError(t, err)
	activated, err := f.elections.Activate(ctx, election.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ElectionStatusActive, activated.Status)
	assert.False(t, activated.ActivatedAt.IsZero())
}

func TestActivateOnlyFromDraft(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()
	election := f.readyElection(t)

	_, err := f.elections.Activate(ctx, election.ID)
	require.NoError(t, err)

	_, err = f.elections.Activate(ctx, election.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCandidatesImmutableAfterActivation(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()
	election := f.readyElection(t)

	_, err := f.elections.Activate(ctx, election.ID)
	require.NoError(t, err)

	_, err = f.elections.AddCandidate(ctx, election.ID, "Cem", "", "", 2)
	assert.ErrorIs(t, err, ErrImmutableElection)

	candidates, err := f.candidateRepo.FindByElectionID(ctx, election.ID)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	err = f.elections.RemoveCandidate(ctx, election.ID, candidates[0].ID)
	assert.ErrorIs(t, err, ErrImmutableElection)

	_, err = f.elections.ImportRoster(ctx, election.ID, strings.NewReader(testRoster))
	assert.ErrorIs(t, err, ErrImmutableElection)

	_, err = f.elections.UpdateElection(ctx, election.ID, "New Title", "", true)
	assert.ErrorIs(t, err, ErrImmutableElection)
}

func TestSuspendRequiresMeaningfulReason(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()
	election := f.readyElection(t)
	_, err := f.elections.Activate(ctx, election.ID)
	require.NoError(t, err)

	_, err = f.elections.Suspend(ctx, election.ID, "fraud")
	assert.ErrorIs(t, err, ErrInvalidSuspensionReason)

	// Padding with whitespace does not help.
	_, err = f.elections.Suspend(ctx, election.ID, "   fraud    ")
	assert.ErrorIs(t, err, ErrInvalidSuspensionReason)

	suspended, err := f.elections.Suspend(ctx, election.ID, "ballot box irregularity reported")
	require.NoError(t, err)
	assert.True(t, suspended.IsSuspended)
	assert.Equal(t, "ballot box irregularity reported", suspended.SuspensionReason)
	assert.False(t, suspended.VotingOpen())
}

func TestSuspendResumeCycle(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()
	election := f.readyElection(t)
	_, err := f.elections.Activate(ctx, election.ID)
	require.NoError(t, err)

	// Resume without a suspension is a no-op request, rejected.
	_, err = f.elections.Resume(ctx, election.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.elections.Suspend(ctx, election.ID, "ballot box irregularity reported")
	require.NoError(t, err)

	// Double suspension is rejected too.
	_, err = f.elections.Suspend(ctx, election.ID, "another lengthy suspension reason")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resumed, err := f.elections.Resume(ctx, election.ID)
	require.NoError(t, err)
	assert.False(t, resumed.IsSuspended)
	assert.Empty(t, resumed.SuspensionReason)
	assert.True(t, resumed.VotingOpen())
}

func TestCompleteIsTerminal(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()
	election := f.readyElection(t)
	_, err := f.elections.Activate(ctx, election.ID)
	require.NoError(t, err)
	_, err = f.elections.Suspend(ctx, election.ID, "ballot box irregularity reported")
	require.NoError(t, err)

	completed, err := f.elections.Complete(ctx, election.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ElectionStatusCompleted, completed.Status)
	assert.False(t, completed.IsSuspended)
	assert.Empty(t, completed.SuspensionReason)
	assert.False(t, completed.CompletedAt.IsZero())

	// Nothing moves a completed election.
	_, err = f.elections.Activate(ctx, election.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.elections.Suspend(ctx, election.ID, "another lengthy suspension reason")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.elections.Resume(ctx, election.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.elections.Complete(ctx, election.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteOnlyFromActive(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()
	election := f.readyElection(t)

	_, err := f.elections.Complete(ctx, election.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGuardVotingStates(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()
	election := f.readyElection(t)

	_, err := f.elections.GuardVoting(ctx, election.ID)
	assert.ErrorIs(t, err, ErrElectionNotActive)

	_, err = f.elections.Activate(ctx, election.ID)
	require.NoError(t, err)
	_, err = f.elections.GuardVoting(ctx, election.ID)
	assert.NoError(t, err)

	_, err = f.elections.Suspend(ctx, election.ID, "ballot box irregularity reported")
	require.NoError(t, err)
	_, err = f.elections.GuardVoting(ctx, election.ID)
	assert.ErrorIs(t, err, ErrElectionNotActive)
}

func TestGuardVotingUnknownElection(t *testing.T) {
	f := newElectionFixture(t)

	_, err := f.elections.GuardVoting(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListElectionsActiveOnly(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()

	_, err := f.elections.CreateElection(ctx, "Draft Election", "", true, "admin")
	require.NoError(t, err)
	active := f.readyElection(t)
	_, err = f.elections.Activate(ctx, active.ID)
	require.NoError(t, err)

	listed, err := f.elections.ListElections(ctx, true)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)

	all, err := f.elections.ListElections(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRemoveCandidateChecksOwnership(t *testing.T) {
	f := newElectionFixture(t)
	ctx := context.Background()

	first, err := f.elections.CreateElection(ctx, "First", "", true, "admin")
	require.NoError(t, err)
	second, err := f.elections.CreateElection(ctx, "Second", "", true, "admin")
	require.NoError(t, err)

	candidate, err := f.elections.AddCandidate(ctx, first.ID, "Aylin", "", "", 0)
	require.NoError(t, err)

	// A candidate can only be removed through its own election.
	err = f.elections.RemoveCandidate(ctx, second.ID, candidate.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.elections.RemoveCandidate(ctx, first.ID, candidate.ID))
}
