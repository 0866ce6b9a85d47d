package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure TabulationServiceImpl implements TabulationService
var _ TabulationService = (*TabulationServiceImpl)(nil)

// TabulationServiceImpl computes election results with instant-runoff
// elimination rounds. A result is derived state: it is recomputed from the
// ballot snapshot on every call, is deterministic for a given snapshot, and
// never mutates anything, so it is safe as a live preview during an active
// election and stable once the election is completed.
type TabulationServiceImpl struct {
	electionRepo  repositories.ElectionRepository
	candidateRepo repositories.CandidateRepository
	ballotRepo    repositories.BallotRepository
}

// NewTabulationService creates a new TabulationServiceImpl
func NewTabulationService(
	electionRepo repositories.ElectionRepository,
	candidateRepo repositories.CandidateRepository,
	ballotRepo repositories.BallotRepository,
) *TabulationServiceImpl {
	return &TabulationServiceImpl{
		electionRepo:  electionRepo,
		candidateRepo: candidateRepo,
		ballotRepo:    ballotRepo,
	}
}

// Tabulate reads a single-pass snapshot of the election's ballots and runs
// the count. Ballots arriving after the snapshot simply are not part of
// that preview.
func (s *TabulationServiceImpl) Tabulate(ctx context.Context, electionID primitive.ObjectID) (*models.TabulationResult, error) {
	election, err := s.electionRepo.FindByID(ctx, electionID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find election: %w", err)
	}

	candidates, err := s.candidateRepo.FindByElectionID(ctx, electionID)
	if err != nil {
		slog.Error("Failed to load candidates for tabulation", "error", err, "electionId", electionID)
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	ballots, err := s.ballotRepo.FindByElectionID(ctx, electionID)
	if err != nil {
		slog.Error("Failed to load ballots for tabulation", "error", err, "electionId", electionID)
		return nil, fmt.Errorf("failed to load ballots: %w", err)
	}

	result := RunTabulation(election, candidates, ballots)
	slog.Info("Tabulation computed", "electionId", electionID, "ballots", result.TotalBallots, "rounds", len(result.Rounds), "decided", result.Decided)
	return result, nil
}

// RunTabulation is a pure function of the candidate set and ballot snapshot.
//
// Ranked-choice elections with three or more candidates use instant-runoff
// counting; two-candidate elections and elections with ranked choice
// disabled use a single plurality round. An election with no candidates or
// no ballots yields an empty result with zero rounds, which is a valid
// "no votes yet" outcome rather than an error.
func RunTabulation(election *models.Election, candidates []*models.Candidate, ballots []*models.Ballot) *models.TabulationResult {
	result := &models.TabulationResult{
		ElectionID:   election.ID,
		TotalBallots: len(ballots),
		Rounds:       []models.TabulationRound{},
	}
	if len(candidates) == 0 || len(ballots) == 0 {
		return result
	}

	if !election.UseRankedChoice || len(candidates) == 2 {
		pluralityRound(result, candidates, ballots)
		return result
	}

	instantRunoff(result, candidates, ballots)
	return result
}

// pluralityRound counts first preferences once: highest vote count wins. A
// tie for first place leaves the result undecided; there is no documented
// tie resolution for the single-round case.
func pluralityRound(result *models.TabulationResult, candidates []*models.Candidate, ballots []*models.Ballot) {
	votes := make(map[primitive.ObjectID]int, len(candidates))
	valid := 0
	for _, b := range ballots {
		if len(b.Rankings) == 0 {
			continue
		}
		votes[b.Rankings[0]]++
		valid++
	}

	round := models.TabulationRound{
		Number:           1,
		ValidBallots:     valid,
		ExhaustedBallots: len(ballots) - valid,
	}
	best, runnerUp := -1, -1
	var winner primitive.ObjectID
	for _, c := range candidates {
		v := votes[c.ID]
		round.Tallies = append(round.Tallies, models.CandidateTally{
			CandidateID: c.ID,
			Name:        c.Name,
			Votes:       v,
			Percentage:  percentage(v, valid),
		})
		if v > best {
			runnerUp = best
			best = v
			winner = c.ID
		} else if v > runnerUp {
			runnerUp = v
		}
	}
	sortTallies(round.Tallies, candidates)

	if valid > 0 && best > runnerUp {
		id := winner
		round.WinnerID = &id
		result.WinnerID = &id
		result.Decided = true
	}
	result.Rounds = append(result.Rounds, round)
}

// instantRunoff runs elimination rounds until a candidate holds a strict
// majority of that round's valid (non-exhausted) ballots, or elimination
// can no longer make progress.
//
// Tie policy: every candidate tied for the fewest votes in a round is
// eliminated simultaneously. If that would eliminate all remaining active
// candidates, nobody is eliminated and the count ends undecided. A ballot
// whose every ranked candidate has been eliminated is exhausted and leaves
// the denominator of later rounds.
func instantRunoff(result *models.TabulationResult, candidates []*models.Candidate, ballots []*models.Ballot) {
	active := make(map[primitive.ObjectID]bool, len(candidates))
	for _, c := range candidates {
		active[c.ID] = true
	}
	eliminated := make(map[primitive.ObjectID]bool, len(candidates))

	for roundNo := 1; roundNo <= len(candidates); roundNo++ {
		// Tally first preferences among active candidates only.
		votes := make(map[primitive.ObjectID]int, len(candidates))
		valid := 0
		for _, b := range ballots {
			for _, id := range b.Rankings {
				if active[id] {
					votes[id]++
					valid++
					break
				}
			}
		}

		round := models.TabulationRound{
			Number:           roundNo,
			ValidBallots:     valid,
			ExhaustedBallots: len(ballots) - valid,
		}

		// A strict majority of this round's valid ballots wins.
		var winner primitive.ObjectID
		decided := false
		for id, v := range votes {
			if valid > 0 && 2*v > valid {
				winner = id
				decided = true
				break
			}
		}

		// Pick the candidates to eliminate: all tied for fewest votes,
		// unless a winner was found or the tie spans the whole active set.
		var lowest []primitive.ObjectID
		if !decided {
			minVotes := -1
			for _, c := range candidates {
				if !active[c.ID] {
					continue
				}
				v := votes[c.ID]
				if minVotes == -1 || v < minVotes {
					minVotes = v
					lowest = []primitive.ObjectID{c.ID}
				} else if v == minVotes {
					lowest = append(lowest, c.ID)
				}
			}
			if len(lowest) == activeCount(active) {
				// Complete tie: no elimination possible, count ends here.
				lowest = nil
			}
		}

		droppedThisRound := make(map[primitive.ObjectID]bool, len(lowest))
		for _, id := range lowest {
			droppedThisRound[id] = true
			active[id] = false
			eliminated[id] = true
		}

		// Every candidate appears in every round: previously eliminated
		// ones carry zero votes and keep their eliminated flag, so each
		// round is auditable on its own.
		for _, c := range candidates {
			round.Tallies = append(round.Tallies, models.CandidateTally{
				CandidateID:         c.ID,
				Name:                c.Name,
				Votes:               votes[c.ID],
				Percentage:          percentage(votes[c.ID], valid),
				Eliminated:          eliminated[c.ID],
				EliminatedThisRound: droppedThisRound[c.ID],
			})
		}
		sortTallies(round.Tallies, candidates)

		if decided {
			id := winner
			round.WinnerID = &id
			result.WinnerID = &id
			result.Decided = true
			result.Rounds = append(result.Rounds, round)
			return
		}

		if remaining := activeCount(active); remaining == 1 && valid > 0 {
			// Winner by exhaustion: the sole survivor takes the next round
			// with all remaining valid ballots.
			result.Rounds = append(result.Rounds, round)
			continue
		} else if len(lowest) == 0 || remaining == 0 {
			// No progress possible: complete tie among the remaining set.
			result.Rounds = append(result.Rounds, round)
			return
		}

		result.Rounds = append(result.Rounds, round)
	}
}

// sortTallies orders a round's tallies by votes descending, breaking ties
// by the candidates' display order so output is deterministic.
func sortTallies(tallies []models.CandidateTally, candidates []*models.Candidate) {
	order := make(map[primitive.ObjectID]int, len(candidates))
	for i, c := range candidates {
		order[c.ID] = i
	}
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Votes != tallies[j].Votes {
			return tallies[i].Votes > tallies[j].Votes
		}
		return order[tallies[i].CandidateID] < order[tallies[j].CandidateID]
	})
}

func percentage(votes, valid int) float64 {
	if valid == 0 {
		return 0
	}
	return float64(votes) / float64(valid) * 100
}

func activeCount(active map[primitive.ObjectID]bool) int {
	n := 0
	for _, ok := range active {
		if ok {
			n++
		}
	}
	return n
}
