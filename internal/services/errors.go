package services

import (
	"errors"
)

// Voter-facing and administrative error taxonomy. Handlers translate these
// with errors.Is into HTTP statuses and machine-readable kinds so the UI can
// show a specific, retryable message. None of them leaves partial state
// behind.
var (
	// ErrNotEligible means the claimed identity does not match a roster
	// entry for the election.
	ErrNotEligible = errors.New("voter is not on the eligibility roster")

	// ErrAlreadyVoted means the voter's ballot has already been recorded.
	ErrAlreadyVoted = errors.New("voter has already cast a ballot")

	// ErrElectionNotActive covers draft, completed and suspended elections:
	// voting is closed in all three.
	ErrElectionNotActive = errors.New("election is not open for voting")

	// ErrInvalidCode means the submitted one-time code does not match the
	// stored challenge, or no challenge exists.
	ErrInvalidCode = errors.New("verification code is invalid")

	// ErrCodeExpired means the one-time code was correct but past its TTL.
	ErrCodeExpired = errors.New("verification code has expired")

	// ErrInvalidBallot means the submitted rankings are not a valid ballot
	// for the election's candidate set.
	ErrInvalidBallot = errors.New("ballot rankings are invalid")

	// ErrInsufficientSetup blocks activation of an election without at
	// least two candidates and one roster entry.
	ErrInsufficientSetup = errors.New("election needs at least two candidates and one eligible voter")

	// ErrInvalidSuspensionReason blocks suspension without a meaningful reason.
	ErrInvalidSuspensionReason = errors.New("suspension reason must be at least 10 characters")

	// ErrInvalidTransition means the requested lifecycle transition is not
	// allowed from the election's current state.
	ErrInvalidTransition = errors.New("invalid election state transition")

	// ErrNotFound means the referenced election or candidate does not exist.
	ErrNotFound = errors.New("not found")

	// ErrImmutableElection blocks candidate and roster changes once the
	// election has left the draft state.
	ErrImmutableElection = errors.New("candidates and roster are immutable after activation")
)
