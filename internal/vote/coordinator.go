package vote

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Coordinator is the single authority over the active poll's state.
// Its methods are not safe for concurrent use; the hosting layer has to
// serialize calls (the bot holds a mutex around them)
type Coordinator struct {
	store  Store
	pollid string
	poll   *Poll
}

func NewCoordinator(store Store, pollid string) Coordinator {
	return Coordinator{store: store, pollid: pollid}
}

// Poll returns the active poll, or nil if none has been started
func (coordinator *Coordinator) Poll() *Poll {
	return coordinator.poll
}

// Start creates a new open poll for the next 7 days, taking the provided
// set of eligible voters as the snapshot for the whole poll.
// Any previously persisted record is merged in: the persisted vote sets are
// the source of truth, and days outside the freshly generated 7 are carried
// forward rather than pruned (their votes still count towards completion,
// but they can never win)
func (coordinator *Coordinator) Start(eligibleVoters UserSet) (*Poll, error) {

	days := DaysFrom(time.Now().UTC())

	record, err := coordinator.store.Load(coordinator.pollid)
	if err != nil {
		return nil, err
	}

	votes := make(map[Day]UserSet, len(days))
	for day, userids := range record {
		votes[day] = NewUserSet(userids...)
	}
	for _, day := range days {
		if _, ok := votes[day]; !ok {
			votes[day] = UserSet{}
		}
	}

	coordinator.poll = &Poll{Days: days, Votes: votes, EligibleVoters: eligibleVoters, Status: Open}
	log.Info().Msg(fmt.Sprintf("Started poll %s with %d eligible voters", coordinator.pollid, len(eligibleVoters)))
	return coordinator.poll, nil
}

// Toggle flips the user's vote for the provided day, persists the new state
// and closes the poll if every eligible voter has now voted for at least
// one day.
// If persisting fails the in-memory mutation is rolled back, so memory and
// disk never diverge
func (coordinator *Coordinator) Toggle(user UserId, day Day) (Result, error) {

	poll := coordinator.poll
	if poll == nil {
		return 0, ErrNoPoll
	}
	if poll.Status == Closed {
		return 0, ErrPollClosed
	}
	if !poll.EligibleVoters.Contains(user) {
		return 0, ErrNotEligible
	}

	poll.toggle(user, day)
	if err := coordinator.store.Save(coordinator.pollid, poll.Record()); err != nil {
		poll.toggle(user, day)
		return 0, fmt.Errorf("could not persist vote of user %s for day %s: %w", user, day, err)
	}

	if poll.complete() {
		poll.Status = Closed
		log.Info().Msg(fmt.Sprintf("Poll %s is complete, closing", coordinator.pollid))
		return ToggledAndClosed, nil
	}
	return Toggled, nil
}
