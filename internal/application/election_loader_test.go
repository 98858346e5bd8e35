// Package application provides the orchestration around the poll model:
// election files, rendering, and suggestions.
package application

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-polltrack/internal/domain"
	"github.com/ahrav/go-polltrack/internal/ports"
	"github.com/ahrav/go-polltrack/internal/testutils"
)

func newTestLoader(t *testing.T) *ElectionLoader {
	t.Helper()
	loader, err := NewElectionLoader()
	require.NoError(t, err, "Failed to create loader")
	return loader
}

// TestElectionLoader_LoadFromReader tests loading a valid election file
// into a populated poll list.
func TestElectionLoader_LoadFromReader(t *testing.T) {
	loader := newTestLoader(t)

	election, err := loader.LoadFromReader(context.Background(), strings.NewReader(testutils.ElectionYAML))
	require.NoError(t, err)

	assert.Equal(t, "Test Election", election.Name)
	assert.Equal(t, []string{"Liberal", "Green"}, election.PartyNames)
	assert.Equal(t, map[string]color.RGBA{"Liberal": {R: 255, A: 255}}, election.Colours)

	list := election.PollList
	assert.Equal(t, 3, list.Capacity(), "Capacity should come from max_polls")
	assert.Equal(t, 18, list.TotalSeats())
	require.Equal(t, 2, list.Len())

	ipsos, ok := list.Slot(0)
	require.True(t, ok)
	assert.Equal(t,
		"Ipsos\nLiberal ([255,0,0], 50% of votes, 10.0 seats)\nGreen (20% of votes, 4.0 seats)",
		ipsos.String())

	leger, ok := list.Slot(1)
	require.True(t, ok)
	liberal, ok := leger.Party("LIBERAL")
	require.True(t, ok)
	assert.Equal(t, "Liberal", liberal.Name(), "Projection names should use the declared spelling")
	_, hasColour := liberal.Colour()
	assert.True(t, hasColour)
}

// TestElectionLoader_Defaults verifies the poll list capacity falls back to
// the number of polls in the file.
func TestElectionLoader_Defaults(t *testing.T) {
	yamlDoc := `version: "1.0.0"
election:
  name: Minimal
  total_seats: 5
parties:
  - name: Solo
polls:
  - name: Only
    projections:
      - party: Solo
        seats: 5
        vote_share: 1
`
	election, err := newTestLoader(t).LoadFromReader(context.Background(), strings.NewReader(yamlDoc))
	require.NoError(t, err)

	assert.Equal(t, 1, election.PollList.Capacity())
	assert.Empty(t, election.Colours)
	assert.Empty(t, election.PollList.EmptySlots())
}

// TestElectionLoader_Errors covers parsing, struct validation and semantic
// validation failures.
func TestElectionLoader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
		wantIs error
	}{
		{
			name:   "unknown field",
			yaml:   strings.Replace(testutils.ElectionYAML, "max_polls: 3", "max_polls: 3\n  region: north", 1),
			errMsg: "not found",
		},
		{
			name:   "malformed yaml",
			yaml:   "version: [",
			errMsg: "failed to parse YAML",
		},
		{
			name:   "bad version",
			yaml:   strings.Replace(testutils.ElectionYAML, `"1.0.0"`, `"1.0"`, 1),
			errMsg: "semver",
		},
		{
			name:   "bad colour",
			yaml:   strings.Replace(testutils.ElectionYAML, `"#ff0000"`, `"red"`, 1),
			errMsg: "rgbhex",
		},
		{
			name:   "comma in party name",
			yaml:   strings.Replace(testutils.ElectionYAML, "- name: Green", "- name: Green, Party", 1),
			errMsg: "partyname",
		},
		{
			name:   "share above one",
			yaml:   strings.Replace(testutils.ElectionYAML, "vote_share: 0.5", "vote_share: 1.5", 1),
			errMsg: "VoteShare",
		},
		{
			name:   "duplicate folded party",
			yaml:   strings.Replace(testutils.ElectionYAML, "- name: Green", "- name: LIBERAL", 1),
			errMsg: "duplicate party",
			wantIs: domain.ErrValidationRejected,
		},
		{
			name:   "undeclared party",
			yaml:   strings.Replace(testutils.ElectionYAML, "party: liberal", "party: Labour", 1),
			errMsg: `undeclared party "Labour"`,
			wantIs: domain.ErrValidationRejected,
		},
		{
			name:   "seats over budget",
			yaml:   strings.Replace(testutils.ElectionYAML, "seats: 10", "seats: 15", 1),
			errMsg: "more than the 18 available",
			wantIs: domain.ErrValidationRejected,
		},
		{
			name:   "too many polls",
			yaml:   strings.Replace(testutils.ElectionYAML, "max_polls: 3", "max_polls: 1", 1),
			errMsg: "max_polls is 1",
			wantIs: domain.ErrValidationRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newTestLoader(t)

			election, err := loader.LoadFromReader(context.Background(), strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, election)
			assert.Contains(t, err.Error(), tt.errMsg)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.Zero(t, loader.CacheSize(), "Invalid configs must not be cached")
		})
	}
}

// TestElectionLoader_Cache verifies that equivalent documents share a
// cache entry while every load returns a fresh poll list.
func TestElectionLoader_Cache(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	first, err := loader.LoadFromReader(ctx, strings.NewReader(testutils.ElectionYAML))
	require.NoError(t, err)
	second, err := loader.LoadFromReader(ctx, strings.NewReader("# reformatted\n"+testutils.ElectionYAML))
	require.NoError(t, err)

	assert.Equal(t, 1, loader.CacheSize(), "Comments should not change the cache key")
	assert.NotSame(t, first.PollList, second.PollList, "Each load should build its own poll list")
	assert.Equal(t, first.PollList.String(), second.PollList.String())

	loader.ClearCache()
	assert.Zero(t, loader.CacheSize())
}

// TestElectionLoader_ConcurrentLoads ensures concurrent loads of the same
// document succeed and produce a single cache entry.
func TestElectionLoader_ConcurrentLoads(t *testing.T) {
	loader := newTestLoader(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = loader.LoadFromReader(context.Background(), strings.NewReader(testutils.ElectionYAML))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, 1, loader.CacheSize())
}

// TestElectionLoader_LoadFromFile tests reading elections from disk.
func TestElectionLoader_LoadFromFile(t *testing.T) {
	loader := newTestLoader(t)
	dir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(dir, "election.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testutils.ElectionYAML), 0o600))

		election, err := loader.LoadFromFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, 2, election.PollList.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadFromFile(context.Background(), filepath.Join(dir, "missing.yaml"))

		var cfgErr *ports.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.ErrorIs(t, err, ports.ErrConfigNotFound)
		assert.Contains(t, cfgErr.ConfigKey, "missing.yaml")
	})
}

// TestElectionLoader_Cancelled checks that a cancelled context stops the
// load before a poll list is built.
func TestElectionLoader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(t).LoadFromReader(ctx, strings.NewReader(testutils.ElectionYAML))
	assert.ErrorIs(t, err, context.Canceled)
}

// FuzzElectionLoader_LoadFromReader feeds arbitrary documents to the loader
// and renders whatever loads, looking for panics.
func FuzzElectionLoader_LoadFromReader(f *testing.F) {
	f.Add(testutils.ElectionYAML)
	f.Add("")
	f.Add("version: [")
	f.Add(`version: "1.0.0"
election: {name: x, total_seats: 1}
parties: [{name: a}]
polls: [{name: p, projections: [{party: A, seats: .inf, vote_share: .nan}]}]`)

	loader, err := NewElectionLoader()
	if err != nil {
		f.Fatalf("failed to create loader: %v", err)
	}

	f.Fuzz(func(t *testing.T, doc string) {
		election, err := loader.LoadFromReader(context.Background(), strings.NewReader(doc))
		if err != nil || election == nil {
			return
		}
		_, _ = election.PollList.TextVisualization(domain.Seats)
		_, _ = election.PollList.TextVisualization(domain.Votes)
		_, _ = election.PollList.AggregatePoll(election.PartyNames)
		loader.ClearCache()
	})
}
