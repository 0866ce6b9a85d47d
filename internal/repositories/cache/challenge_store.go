package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure ChallengeStore implements the interface
var _ repositories.ChallengeStore = (*ChallengeStore)(nil)

// ChallengeStore keeps one-time verification codes in an in-memory TTL cache.
// Entries outlive the code TTL by a grace period so an expired code can be
// reported as expired rather than unknown; the challenge's own ExpiresAt is
// what decides validity, never the client.
type ChallengeStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

// expiryGrace is how long an expired challenge stays resolvable so the
// caller can distinguish CodeExpired from InvalidCode.
const expiryGrace = 30 * time.Minute

// NewChallengeStore creates a ChallengeStore whose codes expire after ttl.
func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{
		cache: gocache.New(ttl+expiryGrace, 10*time.Minute),
		ttl:   ttl,
	}
}

// TTL returns the configured code lifetime.
func (s *ChallengeStore) TTL() time.Duration {
	return s.ttl
}

// Put stores a challenge, replacing any prior unconsumed challenge for the
// same voter and election.
func (s *ChallengeStore) Put(electionID primitive.ObjectID, studentNo string, challenge *models.VerificationChallenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(key(electionID, studentNo), challenge, gocache.DefaultExpiration)
}

// Get returns the stored challenge without consuming it.
func (s *ChallengeStore) Get(electionID primitive.ObjectID, studentNo string) (*models.VerificationChallenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(key(electionID, studentNo))
	if !ok {
		return nil, false
	}
	return v.(*models.VerificationChallenge), true
}

// Consume removes and returns the stored challenge. The mutex makes the
// check-and-delete single-use: of any number of concurrent submissions
// carrying the same code, exactly one gets the challenge back.
func (s *ChallengeStore) Consume(electionID primitive.ObjectID, studentNo string) (*models.VerificationChallenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(electionID, studentNo)
	v, ok := s.cache.Get(k)
	if !ok {
		return nil, false
	}
	s.cache.Delete(k)
	return v.(*models.VerificationChallenge), true
}

func key(electionID primitive.ObjectID, studentNo string) string {
	return electionID.Hex() + ":" + studentNo
}
