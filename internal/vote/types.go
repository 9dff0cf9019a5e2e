package vote

import (
	"errors"
)

type UserId string
type Day string

// UserSet is an unordered set of user ids
type UserSet map[UserId]struct{}

// VoteRecord is the persisted form of the vote state: for every day,
// the users that voted for it. Ordering inside a set carries no meaning
type VoteRecord map[Day][]UserId

type Status int

const (
	Open Status = iota
	Closed
)

type Result int

const (
	Toggled Result = iota
	ToggledAndClosed
)

var (
	ErrNotEligible = errors.New("user is not registered to vote")
	ErrPollClosed  = errors.New("poll is already closed")
	ErrNoPoll      = errors.New("no active poll")
)

func NewUserSet(userids ...UserId) UserSet {
	set := make(UserSet, len(userids))
	for _, userid := range userids {
		set[userid] = struct{}{}
	}
	return set
}

func (set UserSet) Contains(userid UserId) bool {
	_, ok := set[userid]
	return ok
}

func (set UserSet) Equals(other UserSet) bool {
	if len(set) != len(other) {
		return false
	}
	for userid := range set {
		if _, ok := other[userid]; !ok {
			return false
		}
	}
	return true
}
