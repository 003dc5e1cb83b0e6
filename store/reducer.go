package store

import "github.com/fitgoals/backend/domain"

// State is the consumer-facing snapshot of the goal collection. Loading
// tracks the most recently started operation; Err holds the user-facing
// message of the last failure and is cleared when any operation starts.
type State struct {
	Goals   []domain.Goal
	Loading bool
	Err     string
}

type opKind int

const (
	opFetch opKind = iota
	opCreate
	opUpdate
	opDelete
	opLogActivity
)

// User-facing failure messages are fixed per operation; raw repository error
// detail stays in the logs.
var failureMessages = map[opKind]string{
	opFetch:       "Failed to fetch goals",
	opCreate:      "Failed to create goal",
	opUpdate:      "Failed to update goal",
	opDelete:      "Failed to delete goal",
	opLogActivity: "Failed to log activity",
}

type phase int

const (
	phaseStart phase = iota
	phaseSuccess
	phaseFailure
)

type action struct {
	kind  opKind
	phase phase

	goals  []domain.Goal // fetch success
	goal   *domain.Goal  // create/update/logActivity success
	goalID string        // delete success
}

// reduce is a pure transition function. The incoming state is never mutated;
// collection changes produce a fresh slice.
func reduce(state State, a action) State {
	switch a.phase {
	case phaseStart:
		state.Loading = true
		state.Err = ""
		return state

	case phaseFailure:
		state.Loading = false
		state.Err = failureMessages[a.kind]
		return state
	}

	state.Loading = false
	state.Err = ""

	switch a.kind {
	case opFetch:
		state.Goals = append([]domain.Goal(nil), a.goals...)

	case opCreate:
		if a.goal != nil {
			next := make([]domain.Goal, 0, len(state.Goals)+1)
			next = append(next, state.Goals...)
			next = append(next, *a.goal)
			state.Goals = next
		}

	case opUpdate, opLogActivity:
		if a.goal != nil {
			next := make([]domain.Goal, len(state.Goals))
			for i, g := range state.Goals {
				if g.ID == a.goal.ID {
					next[i] = *a.goal
				} else {
					next[i] = g
				}
			}
			state.Goals = next
		}

	case opDelete:
		next := make([]domain.Goal, 0, len(state.Goals))
		for _, g := range state.Goals {
			if g.ID != a.goalID {
				next = append(next, g)
			}
		}
		state.Goals = next
	}

	return state
}
