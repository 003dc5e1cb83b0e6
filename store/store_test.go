package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitgoals/backend/domain"
	"github.com/fitgoals/backend/repository"
)

// fakeGoalRepo is an in-memory GoalRepository with injectable failures and an
// optional gate invoked inside Update, used to sequence racing operations.
type fakeGoalRepo struct {
	mu    sync.Mutex
	goals map[string]domain.Goal
	order []string

	failList   error
	failCreate error
	failGet    error
	failUpdate error
	failDelete error
	failAppend error

	updateGate func()
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[string]domain.Goal{}}
}

func (f *fakeGoalRepo) seed(goal domain.Goal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goals[goal.ID] = goal
	f.order = append(f.order, goal.ID)
}

func (f *fakeGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	goal, ok := f.goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return &goal, nil
}

func (f *fakeGoalRepo) ListByOwner(ctx context.Context, filter repository.GoalFilter) ([]domain.Goal, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Goal
	for _, id := range f.order {
		goal := f.goals[id]
		if filter.OwnerID != "" && goal.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, goal)
	}
	return out, nil
}

func (f *fakeGoalRepo) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	if goal.ID == "" {
		goal.ID = "goal-" + goal.Title
	}
	f.seed(*goal)
	return goal, nil
}

func (f *fakeGoalRepo) Update(ctx context.Context, goal *domain.Goal) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if f.updateGate != nil {
		f.updateGate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.goals[goal.ID]; !ok {
		return domain.ErrGoalNotFound
	}
	f.goals[goal.ID] = *goal
	return nil
}

func (f *fakeGoalRepo) Delete(ctx context.Context, id string) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.goals[id]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(f.goals, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeGoalRepo) AppendActivity(ctx context.Context, goalID string, activity domain.Activity) (*domain.Goal, error) {
	if f.failAppend != nil {
		return nil, f.failAppend
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	goal, ok := f.goals[goalID]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	updated := goal.WithActivity(activity, time.Now())
	f.goals[goalID] = updated
	return &updated, nil
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func seedGoal(id string, progress int) domain.Goal {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Goal{
		ID:         id,
		OwnerID:    "owner-1",
		Title:      "Run 5k",
		TargetDate: now.Add(72 * time.Hour),
		Progress:   progress,
		Status:     domain.StatusActive,
		Activities: []domain.Activity{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestFetchGoalsReplacesCollection(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))
	repo.seed(seedGoal("g2", 20))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))

	state := s.Snapshot()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
	require.Len(t, state.Goals, 2)
	assert.Equal(t, "g1", state.Goals[0].ID)
	assert.Equal(t, "g2", state.Goals[1].ID)

	// fetching again with no intervening mutation yields the same contents
	require.NoError(t, s.FetchGoals(context.Background()))
	assert.Equal(t, state.Goals, s.Snapshot().Goals)
}

func TestFetchGoalsFailure(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.failList = errors.New("connection refused")

	s := New(repo, "owner-1", nil)
	err := s.FetchGoals(context.Background())
	require.Error(t, err)

	state := s.Snapshot()
	assert.False(t, state.Loading)
	assert.Equal(t, "Failed to fetch goals", state.Err)
	assert.Empty(t, state.Goals)
}

func TestCreateGoalAppends(t *testing.T) {
	repo := newFakeGoalRepo()
	s := New(repo, "owner-1", nil)

	created, err := s.CreateGoal(context.Background(), domain.GoalPayload{
		Title:      strPtr("Run 5k"),
		TargetDate: timePtr(time.Now().Add(24 * time.Hour)),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.Progress)
	assert.NotNil(t, created.Activities)
	assert.Empty(t, created.Activities)
	assert.Equal(t, domain.StatusActive, created.Status)

	state := s.Snapshot()
	require.Len(t, state.Goals, 1)
	assert.Equal(t, created.ID, state.Goals[0].ID)
}

func TestCreateGoalValidationErrorLeavesStateUntouched(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))
	before := s.Snapshot()

	_, err := s.CreateGoal(context.Background(), domain.GoalPayload{
		Title:      strPtr(""),
		TargetDate: timePtr(time.Now().Add(24 * time.Hour)),
		Progress:   intPtr(50),
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	// validation failures never reach the failure path
	after := s.Snapshot()
	assert.Equal(t, before.Goals, after.Goals)
	assert.Empty(t, after.Err)
	assert.False(t, after.Loading)
}

func TestUpdateGoalReplacesEntry(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))
	repo.seed(seedGoal("g2", 20))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))

	updated, err := s.UpdateGoal(context.Background(), "g2", domain.GoalPayload{Progress: intPtr(60)})
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Progress)
	assert.Equal(t, "Run 5k", updated.Title, "partial update preserves omitted fields")

	state := s.Snapshot()
	require.Len(t, state.Goals, 2)
	assert.Equal(t, 10, state.Goals[0].Progress)
	assert.Equal(t, 60, state.Goals[1].Progress)
}

func TestUpdateGoalFailureIsolation(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))
	before := s.Snapshot()

	repo.failUpdate = errors.New("disk full")
	_, err := s.UpdateGoal(context.Background(), "g1", domain.GoalPayload{Progress: intPtr(99)})
	require.Error(t, err)

	state := s.Snapshot()
	assert.Equal(t, "Failed to update goal", state.Err)
	assert.Equal(t, before.Goals, state.Goals, "collection must be unchanged after a failed update")
}

func TestErrorClearedOnNextOperationStart(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.failList = errors.New("boom")

	s := New(repo, "owner-1", nil)
	require.Error(t, s.FetchGoals(context.Background()))
	assert.Equal(t, "Failed to fetch goals", s.Snapshot().Err)

	repo.failList = nil
	require.NoError(t, s.FetchGoals(context.Background()))
	assert.Empty(t, s.Snapshot().Err)
}

func TestDeleteGoalRemovesEntry(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))
	repo.seed(seedGoal("g2", 20))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))
	require.NoError(t, s.DeleteGoal(context.Background(), "g1"))

	state := s.Snapshot()
	require.Len(t, state.Goals, 1)
	assert.Equal(t, "g2", state.Goals[0].ID)
}

func TestDeleteGoalFailureKeepsEntry(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))

	repo.failDelete = errors.New("boom")
	require.Error(t, s.DeleteGoal(context.Background(), "g1"))

	state := s.Snapshot()
	assert.Equal(t, "Failed to delete goal", state.Err)
	require.Len(t, state.Goals, 1)
}

func TestLogActivityAppendsToGoal(t *testing.T) {
	repo := newFakeGoalRepo()
	goal := seedGoal("g1", 10)
	goal.Activities = []domain.Activity{{Type: "walk", DurationMinutes: 20, Date: goal.CreatedAt}}
	repo.seed(goal)

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))

	updated, err := s.LogActivity(context.Background(), "g1", domain.ActivityPayload{
		Type:            "run",
		DurationMinutes: 30,
		Date:            time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, updated.Activities, 2)
	assert.Equal(t, "walk", updated.Activities[0].Type)
	assert.Equal(t, "run", updated.Activities[1].Type)
	assert.Equal(t, float64(50), updated.TotalActivityMinutes())

	state := s.Snapshot()
	require.Len(t, state.Goals[0].Activities, 2)
}

func TestLogActivityValidationBypassesStore(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))

	_, err := s.LogActivity(context.Background(), "g1", domain.ActivityPayload{
		Type:            "run",
		DurationMinutes: 0,
		Date:            time.Now(),
	})
	require.Error(t, err)
	assert.Empty(t, s.Snapshot().Err)
	require.Len(t, s.Snapshot().Goals[0].Activities, 0)
}

func TestSnapshotDoesNotAliasCollection(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))

	snapshot := s.Snapshot()
	snapshot.Goals[0].Progress = 99

	assert.Equal(t, 10, s.Snapshot().Goals[0].Progress)
}

func TestSnapshotDoesNotAliasActivities(t *testing.T) {
	repo := newFakeGoalRepo()
	goal := seedGoal("g1", 10)
	goal.Activities = []domain.Activity{{Type: "run", DurationMinutes: 30, Date: goal.CreatedAt}}
	repo.seed(goal)

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))

	snapshot := s.Snapshot()
	snapshot.Goals[0].Activities[0].Type = "tampered"

	assert.Equal(t, "run", s.Snapshot().Goals[0].Activities[0].Type)
}

// Two operations racing against the same goal: whichever terminal event
// applies last wins, even if it started first.
func TestConcurrentUpdatesLastSuccessWins(t *testing.T) {
	repo := newFakeGoalRepo()
	repo.seed(seedGoal("g1", 10))

	s := New(repo, "owner-1", nil)
	require.NoError(t, s.FetchGoals(context.Background()))

	entered := make(chan struct{}, 2)
	gates := []chan struct{}{make(chan struct{}), make(chan struct{})}
	var gateCalls int32
	repo.updateGate = func() {
		i := atomic.AddInt32(&gateCalls, 1) - 1
		entered <- struct{}{}
		<-gates[i]
	}

	done := make(chan struct{}, 2)
	go func() {
		_, err := s.UpdateGoal(context.Background(), "g1", domain.GoalPayload{Progress: intPtr(40)})
		assert.NoError(t, err)
		done <- struct{}{}
	}()
	<-entered

	go func() {
		_, err := s.UpdateGoal(context.Background(), "g1", domain.GoalPayload{Progress: intPtr(70)})
		assert.NoError(t, err)
		done <- struct{}{}
	}()
	<-entered

	// both operations are past their start events and inside the repository
	// call; resolve the first one, then the second
	close(gates[0])
	<-done
	close(gates[1])
	<-done

	state := s.Snapshot()
	assert.Equal(t, 70, state.Goals[0].Progress, "the second success to apply wins")
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
}

func TestReduceLastSuccessWinsDeterministic(t *testing.T) {
	goal40 := seedGoal("g1", 40)
	goal70 := seedGoal("g1", 70)

	state := State{Goals: []domain.Goal{seedGoal("g1", 10)}}
	state = reduce(state, action{kind: opUpdate, phase: phaseStart})
	state = reduce(state, action{kind: opUpdate, phase: phaseStart})
	state = reduce(state, action{kind: opUpdate, phase: phaseSuccess, goal: &goal40})
	state = reduce(state, action{kind: opUpdate, phase: phaseSuccess, goal: &goal70})

	assert.Equal(t, 70, state.Goals[0].Progress)
	assert.False(t, state.Loading)
}

func TestReduceFailureRetainsPriorCollection(t *testing.T) {
	prior := []domain.Goal{seedGoal("g1", 10)}
	state := State{Goals: prior}

	state = reduce(state, action{kind: opCreate, phase: phaseStart})
	assert.True(t, state.Loading)
	assert.Empty(t, state.Err)

	state = reduce(state, action{kind: opCreate, phase: phaseFailure})
	assert.False(t, state.Loading)
	assert.Equal(t, "Failed to create goal", state.Err)
	assert.Equal(t, prior, state.Goals)
}
