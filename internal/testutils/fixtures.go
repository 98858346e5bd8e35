// Package testutils holds fixtures and collaborators shared by tests across
// packages.
package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-polltrack/internal/domain"
)

// ElectionYAML is a valid election file with two parties and two polls.
// Eighteen seats give one seat per star in seat visualizations.
const ElectionYAML = `version: "1.0.0"
election:
  name: Test Election
  total_seats: 18
  max_polls: 3
parties:
  - name: Liberal
    colour: "#ff0000"
  - name: Green
polls:
  - name: Ipsos
    projections:
      - party: Liberal
        seats: 10
        vote_share: 0.5
      - party: Green
        seats: 4
        vote_share: 0.2
  - name: Leger
    projections:
      - party: liberal
        seats: 6
        vote_share: 0.3
      - party: Green
        seats: 0
        vote_share: 0.1
`

// Projection is one party row for BuildPoll.
type Projection struct {
	Name  string
	Seats float64
	Share float64
}

// BuildPoll returns a poll sized to hold exactly the given projections.
func BuildPoll(t testing.TB, name string, projections ...Projection) *domain.Poll {
	t.Helper()
	poll := domain.NewPoll(name, len(projections))
	for _, p := range projections {
		party, err := domain.NewParty(p.Name, p.Seats, p.Share)
		require.NoError(t, err)
		_, err = poll.AddParty(party)
		require.NoError(t, err)
	}
	return poll
}

// IpsosPoll and LegerPoll match the polls in ElectionYAML, without colours.
func IpsosPoll(t testing.TB) *domain.Poll {
	return BuildPoll(t, "Ipsos", Projection{"Liberal", 10, .5}, Projection{"Green", 4, .2})
}

// LegerPoll is the second poll of ElectionYAML.
func LegerPoll(t testing.TB) *domain.Poll {
	return BuildPoll(t, "Leger", Projection{"Liberal", 6, .3}, Projection{"Green", 0, .1})
}

// TwoPollList returns an 18-seat list with room for three polls holding
// IpsosPoll and LegerPoll.
func TwoPollList(t testing.TB) *domain.PollList {
	t.Helper()
	list := domain.NewPollList(3, 18)
	require.NoError(t, list.AddPoll(IpsosPoll(t)))
	require.NoError(t, list.AddPoll(LegerPoll(t)))
	return list
}
