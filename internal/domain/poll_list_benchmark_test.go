package domain

import (
	"fmt"
	"testing"
)

func benchmarkList(b *testing.B, polls, parties int) *PollList {
	b.Helper()
	pl := NewPollList(polls, 338)
	for i := range polls {
		poll := NewPoll(fmt.Sprintf("Poll %d", i+1), parties)
		for j := range parties {
			party, err := NewParty(fmt.Sprintf("Party %d", j+1), float64(j*7%40), float64(j%5)/10)
			if err != nil {
				b.Fatal(err)
			}
			if _, err := poll.AddParty(party); err != nil {
				b.Fatal(err)
			}
		}
		if err := pl.AddPoll(poll); err != nil {
			b.Fatal(err)
		}
	}
	return pl
}

// BenchmarkPollList_AveragePartyData measures the folded-name scan across
// every poll.
func BenchmarkPollList_AveragePartyData(b *testing.B) {
	for _, polls := range []int{5, 50} {
		pl := benchmarkList(b, polls, MaxPartiesPerPoll)
		b.Run(fmt.Sprintf("polls=%d", polls), func(b *testing.B) {
			for b.Loop() {
				_ = pl.AveragePartyData("party 10")
			}
		})
	}
}

// BenchmarkPollList_TextVisualization benchmarks rendering a full list.
func BenchmarkPollList_TextVisualization(b *testing.B) {
	pl := benchmarkList(b, 5, MaxPartiesPerPoll)

	b.Run("seats", func(b *testing.B) {
		for b.Loop() {
			_, _ = pl.TextVisualization(Seats)
		}
	})
	b.Run("votes", func(b *testing.B) {
		for b.Loop() {
			_, _ = pl.TextVisualization(Votes)
		}
	})
}
