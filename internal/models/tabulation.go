package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CandidateTally holds one candidate's standing within a tabulation round.
type CandidateTally struct {
	CandidateID         primitive.ObjectID `json:"candidateId"`
	Name                string             `json:"name"`
	Votes               int                `json:"votes"`
	Percentage          float64            `json:"percentage"`
	Eliminated          bool               `json:"eliminated"`
	EliminatedThisRound bool               `json:"eliminatedThisRound"`
}

// TabulationRound is one elimination round of an instant-runoff count.
// ValidBallots counts the ballots that still ranked at least one active
// candidate this round; ExhaustedBallots counts the rest.
type TabulationRound struct {
	Number           int                 `json:"number"`
	Tallies          []CandidateTally    `json:"tallies"`
	ValidBallots     int                 `json:"validBallots"`
	ExhaustedBallots int                 `json:"exhaustedBallots"`
	WinnerID         *primitive.ObjectID `json:"winnerId,omitempty"`
}

// TabulationResult is the full, recomputable outcome of an election count.
// It is derived state: always reproducible from the ballot store.
type TabulationResult struct {
	ElectionID   primitive.ObjectID  `json:"electionId"`
	TotalBallots int                 `json:"totalBallots"`
	Rounds       []TabulationRound   `json:"rounds"`
	WinnerID     *primitive.ObjectID `json:"winnerId,omitempty"`
	Decided      bool                `json:"decided"`
}
