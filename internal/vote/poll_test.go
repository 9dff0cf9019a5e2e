package vote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysFrom(t *testing.T) {
	start := time.Date(2025, 8, 31, 14, 30, 0, 0, time.UTC)
	days := DaysFrom(start)

	require.Len(t, days, NumDays)
	assert.Equal(t, Day("Sunday (2025-08-31)"), days[0])
	assert.Equal(t, Day("Monday (2025-09-01)"), days[1])
	assert.Equal(t, Day("Saturday (2025-09-06)"), days[6])

	// Labels are unique within a poll
	seen := map[Day]struct{}{}
	for _, day := range days {
		_, ok := seen[day]
		assert.False(t, ok, "day %s appears twice", day)
		seen[day] = struct{}{}
	}
}

func newTestPoll(days ...Day) *Poll {
	votes := make(map[Day]UserSet, len(days))
	for _, day := range days {
		votes[day] = UserSet{}
	}
	return &Poll{Days: days, Votes: votes, EligibleVoters: NewUserSet(), Status: Open}
}

func TestWinnerTieBreak(t *testing.T) {
	poll := newTestPoll("Mon", "Tue", "Wed")
	poll.Votes["Mon"] = NewUserSet("A", "B")
	poll.Votes["Tue"] = NewUserSet("A", "B")
	poll.Votes["Wed"] = NewUserSet("C")

	// First day reaching the maximum count wins the tie
	winner, ok := poll.Winner()
	require.True(t, ok)
	assert.Equal(t, Day("Mon"), winner)
}

func TestWinnerStrictMaximum(t *testing.T) {
	poll := newTestPoll("Mon", "Tue", "Wed")
	poll.Votes["Mon"] = NewUserSet("A")
	poll.Votes["Tue"] = NewUserSet("A", "B", "C")
	poll.Votes["Wed"] = NewUserSet("B")

	winner, ok := poll.Winner()
	require.True(t, ok)
	assert.Equal(t, Day("Tue"), winner)
}

func TestWinnerNoVotes(t *testing.T) {
	poll := newTestPoll("Mon", "Tue")
	_, ok := poll.Winner()
	assert.False(t, ok)
}

func TestWinnerIgnoresCarriedForwardDays(t *testing.T) {
	poll := newTestPoll("Mon", "Tue")
	poll.Votes["Mon"] = NewUserSet("A")
	// A stale day from an older record has more votes, but it is not
	// part of the generated sequence so it cannot win
	poll.Votes["Friday (2020-01-03)"] = NewUserSet("A", "B", "C")

	winner, ok := poll.Winner()
	require.True(t, ok)
	assert.Equal(t, Day("Mon"), winner)
}

func TestVotersUnion(t *testing.T) {
	poll := newTestPoll("Mon", "Tue")
	poll.Votes["Mon"] = NewUserSet("A", "B")
	poll.Votes["Tue"] = NewUserSet("B", "C")

	assert.True(t, poll.Voters().Equals(NewUserSet("A", "B", "C")))
}

func TestNotVotedSorted(t *testing.T) {
	poll := newTestPoll("Mon")
	poll.EligibleVoters = NewUserSet("C", "A", "B")
	poll.Votes["Mon"] = NewUserSet("B")

	assert.Equal(t, []UserId{"A", "C"}, poll.NotVoted())
}

func TestDisplayDaysKeepsGeneratedOrderFirst(t *testing.T) {
	poll := newTestPoll("Wed", "Thu")
	poll.Votes["Monday (2020-01-06)"] = NewUserSet("A")
	poll.Votes["Friday (2020-01-03)"] = NewUserSet("B")

	days := poll.DisplayDays()
	assert.Equal(t, []Day{"Wed", "Thu", "Friday (2020-01-03)", "Monday (2020-01-06)"}, days)
}

func TestRecordIsSortedAndComplete(t *testing.T) {
	poll := newTestPoll("Mon", "Tue")
	poll.Votes["Mon"] = NewUserSet("B", "A")

	record := poll.Record()
	require.Len(t, record, 2)
	assert.Equal(t, []UserId{"A", "B"}, record["Mon"])
	assert.Empty(t, record["Tue"])
}
