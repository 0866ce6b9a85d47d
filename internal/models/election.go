package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ElectionStatus represents the lifecycle status of an election
type ElectionStatus string

const (
	ElectionStatusDraft     ElectionStatus = "DRAFT"
	ElectionStatusActive    ElectionStatus = "ACTIVE"
	ElectionStatusCompleted ElectionStatus = "COMPLETED"
)

// Election represents a club election
type Election struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Status           ElectionStatus     `bson:"status" json:"status"`
	UseRankedChoice  bool               `bson:"useRankedChoice" json:"useRankedChoice"`
	IsSuspended      bool               `bson:"isSuspended" json:"isSuspended"`
	SuspensionReason string             `bson:"suspensionReason,omitempty" json:"suspensionReason,omitempty"`
	CreatedBy        string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	ActivatedAt      time.Time          `bson:"activatedAt,omitempty" json:"activatedAt,omitempty"`
	CompletedAt      time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VotingOpen reports whether ballots may currently be cast in the election.
// Every verification and submission path must consult this single guard.
func (e *Election) VotingOpen() bool {
	return e.Status == ElectionStatusActive && !e.IsSuspended
}
