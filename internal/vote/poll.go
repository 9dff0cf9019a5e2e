package vote

import (
	"slices"
	"time"
)

// Format used for day labels, e.g. "Monday (2025-08-31)"
const DayFormat = "Monday (2006-01-02)"

// Number of candidate days in a poll
const NumDays = 7

// DaysFrom generates the ordered day labels for a poll starting
// on the provided date
func DaysFrom(start time.Time) []Day {
	days := make([]Day, NumDays)
	for i := 0; i < NumDays; i++ {
		days[i] = Day(start.AddDate(0, 0, i).Format(DayFormat))
	}
	return days
}

// Poll is the single active vote session.
// Days holds the 7 generated labels in order; Votes may additionally hold
// days carried forward from a previously persisted record
type Poll struct {
	Days           []Day
	Votes          map[Day]UserSet
	EligibleVoters UserSet
	Status         Status
}

// Flip the membership of the user in the day's vote set
func (poll *Poll) toggle(user UserId, day Day) {
	if _, ok := poll.Votes[day]; !ok {
		poll.Votes[day] = UserSet{}
	}
	if poll.Votes[day].Contains(user) {
		delete(poll.Votes[day], user)
	} else {
		poll.Votes[day][user] = struct{}{}
	}
}

// Voters returns the union of all vote sets
func (poll *Poll) Voters() UserSet {
	voters := UserSet{}
	for _, votes := range poll.Votes {
		for userid := range votes {
			voters[userid] = struct{}{}
		}
	}
	return voters
}

// VotersFor returns the users that voted for the provided day,
// sorted for deterministic rendering
func (poll *Poll) VotersFor(day Day) []UserId {
	userids := make([]UserId, 0, len(poll.Votes[day]))
	for userid := range poll.Votes[day] {
		userids = append(userids, userid)
	}
	slices.Sort(userids)
	return userids
}

// NotVoted returns the eligible voters that have not voted for any day yet,
// sorted for deterministic rendering
func (poll *Poll) NotVoted() []UserId {
	voters := poll.Voters()
	userids := make([]UserId, 0)
	for userid := range poll.EligibleVoters {
		if !voters.Contains(userid) {
			userids = append(userids, userid)
		}
	}
	slices.Sort(userids)
	return userids
}

// Every eligible voter has voted for at least one day
func (poll *Poll) complete() bool {
	return poll.Voters().Equals(poll.EligibleVoters)
}

// Winner returns the day with the largest vote set. Ties are broken by the
// earliest day in the generated ordered sequence, so days carried forward
// from an older record never win
func (poll *Poll) Winner() (Day, bool) {
	var winner Day
	best := 0
	for _, day := range poll.Days {
		if count := len(poll.Votes[day]); count > best {
			winner = day
			best = count
		}
	}
	return winner, best > 0
}

// DisplayDays returns every day holding a vote set: the generated sequence
// first, then any day carried forward from an older record, sorted
func (poll *Poll) DisplayDays() []Day {
	days := make([]Day, len(poll.Days))
	copy(days, poll.Days)
	extra := make([]Day, 0)
	for day := range poll.Votes {
		if !slices.Contains(poll.Days, day) {
			extra = append(extra, day)
		}
	}
	slices.Sort(extra)
	return append(days, extra...)
}

// Record converts the poll's vote state into its persisted form
func (poll *Poll) Record() VoteRecord {
	record := make(VoteRecord, len(poll.Votes))
	for day := range poll.Votes {
		record[day] = poll.VotersFor(day)
	}
	return record
}
