// Package factory builds populated poll lists without user input.
package factory

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-polltrack/internal/domain"
	"github.com/ahrav/go-polltrack/internal/ports"
)

var factoryValidator = validator.New()

// Config configures a RandomPollFactory.
type Config struct {
	// TotalSeats is the number of seats in the election.
	TotalSeats int `validate:"required,min=1"`
	// PartyNames lists the parties every generated poll projects.
	PartyNames []string `validate:"required,min=1,max=10,dive,required"`
	// Seed makes generation reproducible: the same seed, parties and
	// seat count always produce the same polls.
	Seed uint64
	// MaxConcurrency bounds the goroutines generating polls. Zero uses
	// GOMAXPROCS.
	MaxConcurrency int `validate:"omitempty,min=1,max=64"`
}

// RandomPollFactory generates poll lists with random projections. Seat
// projections in each poll sum to at most TotalSeats and vote shares to at
// most one.
type RandomPollFactory struct {
	config Config
}

// NewRandomPollFactory validates cfg and returns a factory. Party names
// must be unique ignoring case.
func NewRandomPollFactory(cfg Config) (*RandomPollFactory, error) {
	if err := factoryValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	seen := make(map[string]struct{}, len(cfg.PartyNames))
	for _, name := range cfg.PartyNames {
		key := domain.FoldName(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate party name %q: %w", name, domain.ErrValidationRejected)
		}
		seen[key] = struct{}{}
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = runtime.GOMAXPROCS(0)
	}
	cfg.PartyNames = append([]string(nil), cfg.PartyNames...)
	return &RandomPollFactory{config: cfg}, nil
}

// GeneratePollList builds a list with room for numPolls polls and fills
// every slot with a poll named "Poll 1" through "Poll n". A non-positive
// numPolls gets the default list capacity. Polls are generated
// concurrently, each from its own seeded source, and added in order.
func (f *RandomPollFactory) GeneratePollList(ctx context.Context, numPolls int) (*domain.PollList, error) {
	list := domain.NewPollList(numPolls, f.config.TotalSeats)
	polls := make([]*domain.Poll, list.Capacity())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.config.MaxConcurrency)
	for i := range polls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			poll, err := f.generatePoll(i)
			if err != nil {
				return err
			}
			polls[i] = poll
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, poll := range polls {
		if err := list.AddPoll(poll); err != nil {
			return nil, ports.NewGenerationError(poll.Name(), err)
		}
	}
	return list, nil
}

func (f *RandomPollFactory) generatePoll(index int) (*domain.Poll, error) {
	name := fmt.Sprintf("Poll %d", index+1)
	rng := rand.New(rand.NewPCG(f.config.Seed, uint64(index)))

	parties := len(f.config.PartyNames)
	seats := apportion(rng, float64(f.config.TotalSeats), parties, 1)
	shares := apportion(rng, 1, parties, 100)

	poll := domain.NewPoll(name, parties)
	for i, partyName := range f.config.PartyNames {
		party, err := domain.NewParty(partyName, seats[i], shares[i])
		if err != nil {
			return nil, ports.NewGenerationError(name, err)
		}
		if _, err := poll.AddParty(party); err != nil {
			return nil, ports.NewGenerationError(name, err)
		}
	}
	return poll, nil
}

// apportion splits total into n random parts, each rounded down to a
// multiple of 1/resolution. An extra undecided share is drawn and thrown
// away, so the parts sum to at most total and usually less.
func apportion(rng *rand.Rand, total float64, n int, resolution float64) []float64 {
	weights := make([]float64, n+1)
	var sum float64
	for i := range weights {
		weights[i] = rng.Float64()
		sum += weights[i]
	}
	parts := make([]float64, n)
	if sum == 0 {
		return parts
	}
	for i := range parts {
		parts[i] = math.Floor(total*weights[i]/sum*resolution) / resolution
	}
	return parts
}

var _ ports.PollListGenerator = (*RandomPollFactory)(nil)
