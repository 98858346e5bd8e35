package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Election-wide defaults and constants.
const (
	// DefaultPollCapacity replaces a non-positive poll capacity.
	DefaultPollCapacity = 5
	// DefaultTotalSeats replaces a non-positive seat count.
	DefaultTotalSeats = 10
	// MaxStarsForVisualization is the bar width used for every poll in a
	// PollList so that bars from different polls line up.
	MaxStarsForVisualization = 18
	// AggregatePollName names the poll built by AggregatePoll.
	AggregatePollName = "Aggregate"

	percentScale = 100
)

// PollList is the set of polls tracked for one election together with the
// total number of seats available. Polls fill slots left to right and are
// never moved or removed.
//
// A PollList is not safe for concurrent use.
type PollList struct {
	polls      Slots[*Poll]
	totalSeats int
}

// NewPollList creates an empty list. A non-positive capacity becomes
// DefaultPollCapacity and a non-positive seat count becomes
// DefaultTotalSeats.
func NewPollList(capacity, totalSeats int) *PollList {
	if capacity <= 0 {
		capacity = DefaultPollCapacity
	}
	if totalSeats <= 0 {
		totalSeats = DefaultTotalSeats
	}
	return &PollList{
		polls:      NewSlots[*Poll](capacity),
		totalSeats: totalSeats,
	}
}

// Capacity returns the number of poll slots.
func (pl *PollList) Capacity() int { return pl.polls.Cap() }

// Len returns the number of polls added.
func (pl *PollList) Len() int { return pl.polls.Len() }

// TotalSeats returns the number of seats in the election.
func (pl *PollList) TotalSeats() int { return pl.totalSeats }

// Polls returns the polls in slot order.
func (pl *PollList) Polls() []*Poll { return pl.polls.Values() }

// Slot returns the poll stored at slot i, if any.
func (pl *PollList) Slot(i int) (*Poll, bool) { return pl.polls.At(i) }

// AddPoll stores poll in the first empty slot. A nil poll is rejected with
// ErrNilInput and a full list with a *CapacityError; in both cases the list
// is unchanged.
func (pl *PollList) AddPoll(poll *Poll) error {
	if poll == nil {
		return ErrNilInput
	}
	if pl.polls.Append(poll) < 0 {
		return &CapacityError{Collection: "poll list", Name: poll.Name(), Capacity: pl.Capacity()}
	}
	return nil
}

// AmountPerStar returns how many seats, or how many percentage points of
// the vote, one star stands for across the whole election. The quotient of
// the total by MaxStarsForVisualization is rounded up.
func (pl *PollList) AmountPerStar(m MetricKind) int {
	total := pl.totalSeats
	if m == Votes {
		total = percentScale
	}
	return ceilDiv(total, MaxStarsForVisualization)
}

func ceilDiv(a, b int) int {
	q := a / b
	if q*b < a {
		q++
	}
	return q
}

// AveragePartyData averages the named party's projections over every poll
// that contains it.
//
// Seats and vote share are averaged independently, and only strictly
// positive values count: a poll that projects zero seats for the party is
// treated the same as a poll that does not list it. A metric with no
// positive value averages to zero. The result is a new Party.
func (pl *PollList) AveragePartyData(name string) *Party {
	var (
		seatsSum, votesSum     float64
		seatsCount, votesCount int
	)
	for _, poll := range pl.polls.Values() {
		party, ok := poll.Party(name)
		if !ok {
			continue
		}
		if s := party.ProjectedSeats(); s > 0 {
			seatsSum += s
			seatsCount++
		}
		if v := party.ProjectedVoteShare(); v > 0 {
			votesSum += v
			votesCount++
		}
	}

	avg := &Party{name: name}
	if seatsCount > 0 {
		avg.seats = seatsSum / float64(seatsCount)
	}
	if votesCount > 0 {
		avg.voteShare = votesSum / float64(votesCount)
	}
	return avg
}

// AggregatePoll builds a poll named AggregatePollName holding the
// AveragePartyData of each name, in order. The poll is always returned;
// parties that could not be added (more names than a poll holds) are
// reported through the joined error.
func (pl *PollList) AggregatePoll(names []string) (*Poll, error) {
	aggregate := NewPoll(AggregatePollName, len(names))
	var errs []error
	for _, name := range names {
		if _, err := aggregate.AddParty(pl.AveragePartyData(name)); err != nil {
			errs = append(errs, err)
		}
	}
	return aggregate, errors.Join(errs...)
}

// TextVisualizationBySeats renders every poll by seats at the
// election-wide scale, each block followed by a blank line.
func (pl *PollList) TextVisualizationBySeats() (string, error) {
	return pl.TextVisualization(Seats)
}

// TextVisualizationByVotes renders every poll by vote share at the
// election-wide scale, each block followed by a blank line.
func (pl *PollList) TextVisualizationByVotes() (string, error) {
	return pl.TextVisualization(Votes)
}

// TextVisualization renders every occupied slot with the given metric.
// Empty slots are skipped. An empty list renders as "".
func (pl *PollList) TextVisualization(m MetricKind) (string, error) {
	perStar := float64(pl.AmountPerStar(m))
	var b strings.Builder
	for _, poll := range pl.polls.Values() {
		block, err := poll.TextVisualization(m, MaxStarsForVisualization, perStar)
		if err != nil {
			return "", fmt.Errorf("render poll %q: %w", poll.Name(), err)
		}
		b.WriteString(block)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// EmptySlots returns the indexes of unfilled slots.
func (pl *PollList) EmptySlots() []int {
	var empty []int
	pl.polls.Each(func(i int, _ *Poll, occupied bool) {
		if !occupied {
			empty = append(empty, i)
		}
	})
	return empty
}

// String returns the seat count header followed by the seat visualization.
func (pl *PollList) String() string {
	body, _ := pl.TextVisualizationBySeats()
	return fmt.Sprintf("Number of seats: %d\n%s", pl.totalSeats, body)
}
