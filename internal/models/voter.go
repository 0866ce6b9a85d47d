package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Voter represents an eligible voter on an election's roster.
// HasVoted is the single source of truth for the one-vote invariant; it is
// flipped exactly once, by an atomic compare-and-set at ballot casting time.
type Voter struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ElectionID primitive.ObjectID `bson:"electionId" json:"electionId"`
	StudentNo  string             `bson:"studentNo" json:"studentNo"`
	FullName   string             `bson:"fullName" json:"fullName"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email      string             `bson:"email" json:"email"`
	HasVoted   bool               `bson:"hasVoted" json:"hasVoted"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
