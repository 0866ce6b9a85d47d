package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. They mirror the mongodb implementations'
// contract, including mongo.ErrNoDocuments on misses and the atomic
// compare-and-set semantics of MarkVoted.

type fakeElectionRepo struct {
	mu        sync.Mutex
	elections map[primitive.ObjectID]*models.Election
}

func newFakeElectionRepo() *fakeElectionRepo {
	return &fakeElectionRepo{elections: make(map[primitive.ObjectID]*models.Election)}
}

func (r *fakeElectionRepo) Create(ctx context.Context, election *models.Election) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if election.ID.IsZero() {
		election.ID = primitive.NewObjectID()
	}
	copy := *election
	r.elections[election.ID] = &copy
	return nil
}

func (r *fakeElectionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.elections[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copy := *e
	return &copy, nil
}

func (r *fakeElectionRepo) FindByStatus(ctx context.Context, status models.ElectionStatus) ([]*models.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Election
	for _, e := range r.elections {
		if e.Status == status {
			copy := *e
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *fakeElectionRepo) FindAll(ctx context.Context) ([]*models.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Election
	for _, e := range r.elections {
		copy := *e
		out = append(out, &copy)
	}
	return out, nil
}

func (r *fakeElectionRepo) Update(ctx context.Context, election *models.Election) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.elections[election.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	copy := *election
	r.elections[election.ID] = &copy
	return nil
}

type fakeCandidateRepo struct {
	mu         sync.Mutex
	candidates []*models.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{}
}

func (r *fakeCandidateRepo) Create(ctx context.Context, candidate *models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if candidate.ID.IsZero() {
		candidate.ID = primitive.NewObjectID()
	}
	copy := *candidate
	r.candidates = append(r.candidates, &copy)
	return nil
}

func (r *fakeCandidateRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.candidates {
		if c.ID == id {
			copy := *c
			return &copy, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCandidateRepo) FindByElectionID(ctx context.Context, electionID primitive.ObjectID) ([]*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Candidate
	for _, c := range r.candidates {
		if c.ElectionID == electionID {
			copy := *c
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *fakeCandidateRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.candidates {
		if c.ID == id {
			r.candidates = append(r.candidates[:i], r.candidates[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeCandidateRepo) CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.candidates {
		if c.ElectionID == electionID {
			n++
		}
	}
	return n, nil
}

type voterKey struct {
	electionID primitive.ObjectID
	studentNo  string
}

type fakeVoterRepo struct {
	mu     sync.Mutex
	voters map[voterKey]*models.Voter
}

func newFakeVoterRepo() *fakeVoterRepo {
	return &fakeVoterRepo{voters: make(map[voterKey]*models.Voter)}
}

func (r *fakeVoterRepo) CreateMany(ctx context.Context, voters []*models.Voter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range voters {
		copy := *v
		if copy.ID.IsZero() {
			copy.ID = primitive.NewObjectID()
		}
		r.voters[voterKey{v.ElectionID, v.StudentNo}] = &copy
	}
	return nil
}

func (r *fakeVoterRepo) FindByStudentNo(ctx context.Context, electionID primitive.ObjectID, studentNo string) (*models.Voter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.voters[voterKey{electionID, studentNo}]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copy := *v
	return &copy, nil
}

// MarkVoted is the same compare-and-set as the mongodb implementation: it
// succeeds only if the voter exists with hasVoted still false.
func (r *fakeVoterRepo) MarkVoted(ctx context.Context, electionID primitive.ObjectID, studentNo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.voters[voterKey{electionID, studentNo}]
	if !ok || v.HasVoted {
		return mongo.ErrNoDocuments
	}
	v.HasVoted = true
	return nil
}

func (r *fakeVoterRepo) UnmarkVoted(ctx context.Context, electionID primitive.ObjectID, studentNo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.voters[voterKey{electionID, studentNo}]
	if !ok {
		return mongo.ErrNoDocuments
	}
	v.HasVoted = false
	return nil
}

func (r *fakeVoterRepo) CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k := range r.voters {
		if k.electionID == electionID {
			n++
		}
	}
	return n, nil
}

type fakeBallotRepo struct {
	mu      sync.Mutex
	ballots []*models.Ballot
	// failNext makes the next Create return this error, then clears it.
	failNext error
}

func newFakeBallotRepo() *fakeBallotRepo {
	return &fakeBallotRepo{}
}

func (r *fakeBallotRepo) Create(ctx context.Context, ballot *models.Ballot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	for _, b := range r.ballots {
		if b.ElectionID == ballot.ElectionID && b.VoterKey == ballot.VoterKey {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}
	if ballot.ID == "" {
		ballot.ID = primitive.NewObjectID().Hex()
	}
	copy := *ballot
	r.ballots = append(r.ballots, &copy)
	return nil
}

func (r *fakeBallotRepo) FindByElectionID(ctx context.Context, electionID primitive.ObjectID) ([]*models.Ballot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Ballot
	for _, b := range r.ballots {
		if b.ElectionID == electionID {
			copy := *b
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *fakeBallotRepo) CountByElectionID(ctx context.Context, electionID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.ballots {
		if b.ElectionID == electionID {
			n++
		}
	}
	return n, nil
}

type fakeAdminRepo struct {
	mu    sync.Mutex
	users map[string]*models.AdminUser
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{users: make(map[string]*models.AdminUser)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, adminUser *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if adminUser.ID.IsZero() {
		adminUser.ID = primitive.NewObjectID()
	}
	copy := *adminUser
	r.users[adminUser.Email] = &copy
	return nil
}

func (r *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copy := *u
	return &copy, nil
}

func (r *fakeAdminRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copy := *u
			return &copy, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// fakeMailer records sent codes instead of dispatching email.
type fakeMailer struct {
	mu    sync.Mutex
	to    []string
	codes []string
	fail  error
}

func (m *fakeMailer) SendVerificationCode(to, electionTitle, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.to = append(m.to, to)
	m.codes = append(m.codes, code)
	return nil
}

func (m *fakeMailer) lastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.codes) == 0 {
		return ""
	}
	return m.codes[len(m.codes)-1]
}

var errStorageDown = errors.New("storage unavailable")
