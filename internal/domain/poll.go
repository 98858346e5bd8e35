package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Capacity bounds for a Poll.
const (
	MaxPartiesPerPoll = 10
)

// AddResult describes what AddParty did with its argument.
type AddResult int

const (
	// Rejected means the poll was left unchanged.
	Rejected AddResult = iota
	// Added means the party took the next free slot.
	Added
	// Replaced means a party with the same name was overwritten in place.
	Replaced
)

// String returns the lowercase outcome name, used as a metrics label.
func (r AddResult) String() string {
	switch r {
	case Added:
		return "added"
	case Replaced:
		return "replaced"
	default:
		return "rejected"
	}
}

// Poll is one data source: a named, fixed-capacity registry of party
// projections. Party names are unique under Unicode case folding and keep
// the slot they were first added at.
//
// A Poll is not safe for concurrent use.
type Poll struct {
	name    string
	parties Slots[*Party]
}

// NewPoll creates an empty poll. A capacity outside (0, MaxPartiesPerPoll]
// is replaced by MaxPartiesPerPoll.
func NewPoll(name string, capacity int) *Poll {
	if capacity < 1 || capacity > MaxPartiesPerPoll {
		capacity = MaxPartiesPerPoll
	}
	return &Poll{
		name:    name,
		parties: NewSlots[*Party](capacity),
	}
}

// Name returns the poll name.
func (p *Poll) Name() string { return p.name }

// Capacity returns the maximum number of parties the poll holds.
func (p *Poll) Capacity() int { return p.parties.Cap() }

// Len returns the number of parties in the poll.
func (p *Poll) Len() int { return p.parties.Len() }

// Parties returns the parties in insertion order.
func (p *Poll) Parties() []*Party { return p.parties.Values() }

// Slot returns the party stored at slot i, if any.
func (p *Poll) Slot(i int) (*Party, bool) { return p.parties.At(i) }

// Party returns the party whose name matches name under case folding.
func (p *Poll) Party(name string) (*Party, bool) {
	i := p.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return p.parties.At(i)
}

// AddParty adds party to the poll.
//
// If a party with the same case-folded name is already present it is
// replaced in place and the count is unchanged. Otherwise the party takes
// the next free slot. A full poll rejects the party with a *CapacityError;
// a nil party is rejected with ErrNilInput.
func (p *Poll) AddParty(party *Party) (AddResult, error) {
	if party == nil {
		return Rejected, ErrNilInput
	}
	if i := p.indexOf(party.Name()); i >= 0 {
		p.parties.Replace(i, party)
		return Replaced, nil
	}
	if p.parties.Append(party) < 0 {
		return Rejected, &CapacityError{Collection: "poll", Name: party.Name(), Capacity: p.Capacity()}
	}
	return Added, nil
}

func (p *Poll) indexOf(name string) int {
	key := FoldName(name)
	return p.parties.IndexFunc(func(existing *Party) bool {
		return FoldName(existing.Name()) == key
	})
}

// TextVisualizationBySeats renders the poll name on its own line followed
// by one seat bar per party, each line newline-terminated.
func (p *Poll) TextVisualizationBySeats(maxStars int, seatsPerStar float64) (string, error) {
	return p.visualize(maxStars, seatsPerStar, (*Party).TextVisualizationBySeats)
}

// TextVisualizationByVotes renders the poll name on its own line followed
// by one vote bar per party, each line newline-terminated.
func (p *Poll) TextVisualizationByVotes(maxStars int, votesPerStar float64) (string, error) {
	return p.visualize(maxStars, votesPerStar, (*Party).TextVisualizationByVotes)
}

// TextVisualization dispatches to the seat or vote rendering.
func (p *Poll) TextVisualization(m MetricKind, maxStars int, perStar float64) (string, error) {
	if m == Votes {
		return p.TextVisualizationByVotes(maxStars, perStar)
	}
	return p.TextVisualizationBySeats(maxStars, perStar)
}

func (p *Poll) visualize(
	maxStars int,
	perStar float64,
	line func(*Party, int, float64) (string, error),
) (string, error) {
	if maxStars <= 0 || !(perStar > 0) {
		return "", &VisualizationError{MaxStars: maxStars, PerStar: perStar}
	}

	var b strings.Builder
	b.WriteString(p.name)
	b.WriteByte('\n')
	for _, party := range p.parties.Values() {
		s, err := line(party, maxStars, perStar)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// String returns the poll name followed by one party summary per line.
// An empty poll is just its name.
func (p *Poll) String() string {
	parties := p.parties.Values()
	if len(parties) == 0 {
		return p.name
	}
	lines := make([]string, 0, len(parties)+1)
	lines = append(lines, p.name)
	for _, party := range parties {
		lines = append(lines, party.String())
	}
	return strings.Join(lines, "\n")
}

// FoldName returns the case-folded form of a party name. Two names refer to
// the same party when their folded forms are equal. Casers are stateful, so
// one is built per call.
func FoldName(name string) string {
	return cases.Fold().String(name)
}
