package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Candidate represents a candidate standing in an election.
// Candidates are created while the election is in DRAFT and become
// immutable once the election is activated, so stored ballots always
// reference a stable candidate set.
type Candidate struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ElectionID   primitive.ObjectID `bson:"electionId" json:"electionId"`
	Name         string             `bson:"name" json:"name"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL     string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	DisplayOrder int                `bson:"displayOrder" json:"displayOrder"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
