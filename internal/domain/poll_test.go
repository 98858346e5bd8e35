package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParty(t *testing.T, name string, seats, share float64) *Party {
	t.Helper()
	p, err := NewParty(name, seats, share)
	require.NoError(t, err)
	return p
}

// TestNewPoll_CapacityClamp verifies that capacities outside (0,10] are
// replaced by 10 and that valid capacities are kept.
func TestNewPoll_CapacityClamp(t *testing.T) {
	tests := []struct {
		capacity int
		want     int
	}{
		{-1, 10},
		{0, 10},
		{1, 1},
		{5, 5},
		{10, 10},
		{11, 10},
		{400, 10},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("capacity %d", tt.capacity), func(t *testing.T) {
			p := NewPoll("Poll Test", tt.capacity)
			assert.Equal(t, "Poll Test", p.Name())
			assert.Equal(t, tt.want, p.Capacity())
			assert.Equal(t, 0, p.Len())
		})
	}
}

// TestPoll_AddParty_ClampedCapacityHoldsTen fills a poll created with an
// invalid capacity to confirm that ten parties fit and the eleventh does not.
func TestPoll_AddParty_ClampedCapacityHoldsTen(t *testing.T) {
	p := NewPoll("Poll Test 2", 0)
	for i := range 10 {
		res, err := p.AddParty(mustParty(t, fmt.Sprintf("Party %d", i), 1, 0.01))
		require.NoError(t, err)
		require.Equal(t, Added, res)
	}
	assert.Equal(t, 10, p.Len())

	res, err := p.AddParty(mustParty(t, "Party 10", 1, 0.01))
	assert.Equal(t, Rejected, res)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 10, p.Len())
}

func TestPoll_AddParty(t *testing.T) {
	t.Run("single party", func(t *testing.T) {
		p := NewPoll("Poll Test", 4)
		party := mustParty(t, "PartyOne", 10, 0.1)

		res, err := p.AddParty(party)
		require.NoError(t, err)
		assert.Equal(t, Added, res)
		assert.Equal(t, 1, p.Len())

		got, ok := p.Party("PartyOne")
		require.True(t, ok)
		assert.Same(t, party, got)
	})

	t.Run("unique parties keep insertion order", func(t *testing.T) {
		p := NewPoll("Poll Test", 6)
		names := []string{"PartyOne", "Party Two", "Party3", "Party 4", "Fifth Party", "6th Party"}
		for _, n := range names {
			_, err := p.AddParty(mustParty(t, n, 1, 0.1))
			require.NoError(t, err)
		}

		require.Equal(t, 6, p.Len())
		for i, party := range p.Parties() {
			assert.Equal(t, names[i], party.Name())
			slot, ok := p.Slot(i)
			require.True(t, ok)
			assert.Same(t, party, slot)
		}
	})

	t.Run("full poll rejects and leaves party unfindable", func(t *testing.T) {
		p := NewPoll("Poll Test", 6)
		for i := range 6 {
			_, err := p.AddParty(mustParty(t, fmt.Sprintf("P%d", i), 1, 0.1))
			require.NoError(t, err)
		}

		res, err := p.AddParty(mustParty(t, "No room for 7th", 1, 0.1))
		assert.Equal(t, Rejected, res)

		var capErr *CapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 6, capErr.Capacity)
		assert.Equal(t, "No room for 7th", capErr.Name)

		assert.Equal(t, 6, p.Len())
		_, ok := p.Party("No room for 7th")
		assert.False(t, ok)
	})

	t.Run("nil party is a reported no-op", func(t *testing.T) {
		p := NewPoll("Poll Test", 6)
		res, err := p.AddParty(nil)
		assert.Equal(t, Rejected, res)
		assert.ErrorIs(t, err, ErrNilInput)
		assert.Equal(t, 0, p.Len())
	})
}

// TestPoll_AddParty_Dedup verifies that adding a party whose name matches an
// existing one, ignoring case, replaces it in the same slot without
// changing the count.
func TestPoll_AddParty_Dedup(t *testing.T) {
	tests := []struct {
		name      string
		first     string
		duplicate string
	}{
		{"same case", "PartyOne", "PartyOne"},
		{"different case", "PartyOne", "partyONE"},
		{"unicode folding", "Straße", "STRASSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPoll("Poll Test", 7)
			original := mustParty(t, tt.first, 10, 0.1)
			replacement := mustParty(t, tt.duplicate, 20, 0.2)

			_, err := p.AddParty(original)
			require.NoError(t, err)
			res, err := p.AddParty(replacement)
			require.NoError(t, err)

			assert.Equal(t, Replaced, res)
			assert.Equal(t, 1, p.Len())

			got, ok := p.Party(tt.first)
			require.True(t, ok)
			assert.Same(t, replacement, got)
		})
	}

	t.Run("replacement keeps slot position", func(t *testing.T) {
		p := NewPoll("Poll Test", 6)
		for _, n := range []string{"A", "B", "C"} {
			_, err := p.AddParty(mustParty(t, n, 1, 0.1))
			require.NoError(t, err)
		}
		newB := mustParty(t, "b", 99, 0.9)
		_, err := p.AddParty(newB)
		require.NoError(t, err)

		slot, ok := p.Slot(1)
		require.True(t, ok)
		assert.Same(t, newB, slot)
		assert.Equal(t, 3, p.Len())
	})

	t.Run("duplicate into a full poll still replaces", func(t *testing.T) {
		p := NewPoll("Poll Test", 2)
		_, _ = p.AddParty(mustParty(t, "A", 1, 0.1))
		_, _ = p.AddParty(mustParty(t, "B", 1, 0.1))

		res, err := p.AddParty(mustParty(t, "a", 5, 0.5))
		require.NoError(t, err)
		assert.Equal(t, Replaced, res)

		got, _ := p.Party("A")
		assert.Equal(t, 5.0, got.ProjectedSeats())
	})
}

func TestPoll_Party_NotFound(t *testing.T) {
	p := NewPoll("Poll Test", 3)
	_, _ = p.AddParty(mustParty(t, "Liberal", 1, 0.1))

	got, ok := p.Party("Conservative")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestPoll_String(t *testing.T) {
	t.Run("empty poll", func(t *testing.T) {
		p := NewPoll("Poll test toString", 4)
		assert.Equal(t, "Poll test toString", p.String())
	})

	t.Run("one party", func(t *testing.T) {
		p := NewPoll("Poll name", 4)
		party := mustParty(t, "p1", 1, 0.1)
		_, _ = p.AddParty(party)
		assert.Equal(t, "Poll name\n"+party.String(), p.String())
	})

	t.Run("many parties", func(t *testing.T) {
		p := NewPoll("Poll name too", 3)
		var want []string
		want = append(want, "Poll name too")
		for _, n := range []string{"p1", "p2", "p3"} {
			party := mustParty(t, n, 1, 0.1)
			_, _ = p.AddParty(party)
			want = append(want, party.String())
		}
		assert.Equal(t, strings.Join(want, "\n"), p.String())
	})
}

func TestPoll_TextVisualization(t *testing.T) {
	t.Run("empty poll is the header line", func(t *testing.T) {
		p := NewPoll("Test Viz by Seats", 5)

		got, err := p.TextVisualizationBySeats(10, 12)
		require.NoError(t, err)
		assert.Equal(t, "Test Viz by Seats\n", got)

		got, err = p.TextVisualizationByVotes(10, 12)
		require.NoError(t, err)
		assert.Equal(t, "Test Viz by Seats\n", got)
	})

	t.Run("one line per party", func(t *testing.T) {
		p := NewPoll("Test Viz", 5)
		parties := []*Party{
			mustParty(t, "A", 120, 0.6),
			mustParty(t, "B", 24, 0.12),
			mustParty(t, "C", 0, 0),
		}
		for _, party := range parties {
			_, err := p.AddParty(party)
			require.NoError(t, err)
		}

		got, err := p.TextVisualizationBySeats(10, 12.0)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "Test Viz", lines[0])
		for i, party := range parties {
			want, err := party.TextVisualizationBySeats(10, 12.0)
			require.NoError(t, err)
			assert.Equal(t, want, lines[i+1])
		}
		assert.True(t, strings.HasSuffix(got, "\n"), "every line is newline-terminated")

		got, err = p.TextVisualizationByVotes(10, 12.0)
		require.NoError(t, err)
		lines = strings.Split(strings.TrimSuffix(got, "\n"), "\n")
		want, err := parties[0].TextVisualizationByVotes(10, 12.0)
		require.NoError(t, err)
		assert.Equal(t, want, lines[1])
	})

	t.Run("invalid parameters render nothing", func(t *testing.T) {
		p := NewPoll("Test Viz", 5)
		_, _ = p.AddParty(mustParty(t, "A", 1, 0.1))

		got, err := p.TextVisualizationBySeats(0, 12)
		assert.Empty(t, got)
		assert.ErrorIs(t, err, ErrInvalidVisualization)

		got, err = p.TextVisualizationByVotes(10, -1)
		assert.Empty(t, got)
		assert.ErrorIs(t, err, ErrInvalidVisualization)

		got, err = p.TextVisualization(Votes, 10, 0)
		assert.Empty(t, got)
		assert.ErrorIs(t, err, ErrInvalidVisualization)
	})
}
