package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ballot represents a cast ballot. VoterKey is a one-way hash of the
// election ID and student number: it keeps the at-most-one-ballot-per-voter
// invariant enforceable without storing a human-readable identity on the
// ballot itself. Rankings hold candidate IDs in preference order and are
// immutable once stored.
type Ballot struct {
	ID         string               `bson:"_id" json:"id"`
	ElectionID primitive.ObjectID   `bson:"electionId" json:"electionId"`
	VoterKey   string               `bson:"voterKey" json:"-"`
	Rankings   []primitive.ObjectID `bson:"rankings" json:"rankings"`
	CastAt     time.Time            `bson:"castAt" json:"castAt"`
}

// VoterKey derives the anonymized ballot key for a voter in an election.
func VoterKey(electionID primitive.ObjectID, studentNo string) string {
	sum := sha256.Sum256([]byte(electionID.Hex() + ":" + studentNo))
	return hex.EncodeToString(sum[:])
}
