package vote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *FileStore) {
	t.Helper()
	store := NewStore(t.TempDir())
	coordinator := NewCoordinator(store, DefaultPollID)
	return &coordinator, store
}

func TestStartWithEmptyStore(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)

	poll, err := coordinator.Start(NewUserSet("U1", "U2"))
	require.NoError(t, err)

	assert.Equal(t, Open, poll.Status)
	assert.Len(t, poll.Days, NumDays)
	require.Len(t, poll.Votes, NumDays)
	for _, day := range poll.Days {
		assert.Empty(t, poll.Votes[day])
	}
}

func TestStartMergesPersistedRecord(t *testing.T) {
	coordinator, store := newTestCoordinator(t)

	// A record from an older poll: one day that will not be generated
	// again, with votes, plus a duplicate entry that must collapse
	stale := Day("Monday (2020-01-06)")
	require.NoError(t, store.Save(DefaultPollID, VoteRecord{stale: {"U1", "U2", "U1"}}))

	poll, err := coordinator.Start(NewUserSet("U1", "U2"))
	require.NoError(t, err)

	// Carried forward, not pruned
	require.Contains(t, poll.Votes, stale)
	assert.True(t, poll.Votes[stale].Equals(NewUserSet("U1", "U2")))
	// The generated days are all present and empty
	for _, day := range poll.Days {
		assert.Empty(t, poll.Votes[day])
	}
	assert.Len(t, poll.Votes, NumDays+1)
}

func TestToggleWithoutPoll(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)

	_, err := coordinator.Toggle("U1", "Mon")
	assert.ErrorIs(t, err, ErrNoPoll)
}

func TestTogglePairIsIdentity(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)
	poll, err := coordinator.Start(NewUserSet("U1", "U2"))
	require.NoError(t, err)
	day := poll.Days[0]

	result, err := coordinator.Toggle("U1", day)
	require.NoError(t, err)
	assert.Equal(t, Toggled, result)
	assert.True(t, poll.Votes[day].Contains("U1"))

	result, err = coordinator.Toggle("U1", day)
	require.NoError(t, err)
	assert.Equal(t, Toggled, result)
	assert.False(t, poll.Votes[day].Contains("U1"))

	// An odd number of toggles flips the membership again
	_, err = coordinator.Toggle("U1", day)
	require.NoError(t, err)
	assert.True(t, poll.Votes[day].Contains("U1"))
}

func TestToggleNotEligible(t *testing.T) {
	coordinator, store := newTestCoordinator(t)
	poll, err := coordinator.Start(NewUserSet("U1"))
	require.NoError(t, err)
	day := poll.Days[0]

	_, err = coordinator.Toggle("intruder", day)
	assert.ErrorIs(t, err, ErrNotEligible)

	// No mutation in memory nor on disk
	for _, votes := range poll.Votes {
		assert.False(t, votes.Contains("intruder"))
	}
	record, err := store.Load(DefaultPollID)
	require.NoError(t, err)
	assert.Empty(t, record)
}

func TestCompletionDoesNotTriggerPrematurely(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)
	poll, err := coordinator.Start(NewUserSet("U1", "U2"))
	require.NoError(t, err)

	// One voter covering many days is not completion
	result, err := coordinator.Toggle("U1", poll.Days[0])
	require.NoError(t, err)
	assert.Equal(t, Toggled, result)
	result, err = coordinator.Toggle("U1", poll.Days[1])
	require.NoError(t, err)
	assert.Equal(t, Toggled, result)
	assert.Equal(t, Open, poll.Status)
}

func TestCompletionScenario(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)
	poll, err := coordinator.Start(NewUserSet("U1", "U2"))
	require.NoError(t, err)
	mon, tue := poll.Days[0], poll.Days[1]

	result, err := coordinator.Toggle("U1", mon)
	require.NoError(t, err)
	assert.Equal(t, Toggled, result)
	assert.Equal(t, Open, poll.Status)

	// The exact toggle completing coverage closes the poll
	result, err = coordinator.Toggle("U2", mon)
	require.NoError(t, err)
	assert.Equal(t, ToggledAndClosed, result)
	assert.Equal(t, Closed, poll.Status)

	winner, ok := poll.Winner()
	require.True(t, ok)
	assert.Equal(t, mon, winner)

	// Late toggles are rejected and mutate nothing
	_, err = coordinator.Toggle("U1", tue)
	assert.ErrorIs(t, err, ErrPollClosed)
	assert.Empty(t, poll.Votes[tue])
	assert.Equal(t, Closed, poll.Status)
}

func TestCompletionTieBreakScenario(t *testing.T) {
	coordinator, _ := newTestCoordinator(t)
	poll, err := coordinator.Start(NewUserSet("A", "B", "C"))
	require.NoError(t, err)
	mon, tue, wed := poll.Days[0], poll.Days[1], poll.Days[2]

	for _, toggle := range []struct {
		user UserId
		day  Day
	}{{"A", mon}, {"B", mon}, {"A", tue}, {"B", tue}} {
		result, err := coordinator.Toggle(toggle.user, toggle.day)
		require.NoError(t, err)
		require.Equal(t, Toggled, result)
	}

	result, err := coordinator.Toggle("C", wed)
	require.NoError(t, err)
	assert.Equal(t, ToggledAndClosed, result)

	winner, ok := poll.Winner()
	require.True(t, ok)
	assert.Equal(t, mon, winner)
}

// Store whose saves can be made to fail on demand
type flakyStore struct {
	*FileStore
	fail bool
}

func (store *flakyStore) Save(pollid string, record VoteRecord) error {
	if store.fail {
		return errors.New("disk full")
	}
	return store.FileStore.Save(pollid, record)
}

func TestSaveFailureRollsBackToggle(t *testing.T) {
	store := &flakyStore{FileStore: NewStore(t.TempDir())}
	coordinator := NewCoordinator(store, DefaultPollID)

	poll, err := coordinator.Start(NewUserSet("U1", "U2"))
	require.NoError(t, err)
	day := poll.Days[0]

	_, err = coordinator.Toggle("U1", day)
	require.NoError(t, err)

	// The completing toggle fails to persist: both the in-memory poll and
	// the durable record keep their pre-toggle values
	store.fail = true
	_, err = coordinator.Toggle("U2", day)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotEligible)
	assert.NotErrorIs(t, err, ErrPollClosed)

	assert.Equal(t, Open, poll.Status)
	assert.True(t, poll.Votes[day].Equals(NewUserSet("U1")))

	record, err := store.Load(DefaultPollID)
	require.NoError(t, err)
	assert.Equal(t, []UserId{"U1"}, record[day])

	// The caller may simply re-issue the toggle
	store.fail = false
	result, err := coordinator.Toggle("U2", day)
	require.NoError(t, err)
	assert.Equal(t, ToggledAndClosed, result)
}
