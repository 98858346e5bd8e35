package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-polltrack/internal/domain"
	"github.com/ahrav/go-polltrack/internal/ports"
)

// Election is a loaded election file: the declared parties and a poll list
// populated from the file's polls.
type Election struct {
	// Name is the election's display name.
	Name string
	// PartyNames lists the declared parties in file order.
	PartyNames []string
	// Colours maps a declared party name to its colour. Parties without a
	// colour are absent.
	Colours map[string]color.RGBA
	// PollList is owned by the caller; every load builds a new one.
	PollList *domain.PollList
}

// ElectionLoader provides YAML parsing, validation, and caching for
// election files, turning declarative configuration into a populated
// PollList.
// Use ElectionLoader to load elections from files or readers while
// benefiting from SHA256-based caching of validated configurations.
type ElectionLoader struct {
	// validator performs struct field validation and the custom election
	// rules registered by RegisterElectionValidators.
	validator *validator.Validate
	// cache stores validated configurations indexed by the SHA256 hash of
	// their normalized YAML. Cached configs are never mutated; poll lists
	// are rebuilt from them on each load.
	cache   map[string]*ElectionConfig
	cacheMu sync.RWMutex
	// sf prevents duplicate validation when multiple goroutines load the
	// same content simultaneously.
	sf     singleflight.Group
	tracer trace.Tracer
}

// NewElectionLoader creates a loader with the election validators
// registered and an empty cache.
// NewElectionLoader returns an error if validator registration fails.
func NewElectionLoader() (*ElectionLoader, error) {
	v := validator.New()

	if err := RegisterElectionValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	return &ElectionLoader{
		validator: v,
		cache:     make(map[string]*ElectionConfig),
		tracer:    otel.Tracer("election-loader"),
	}, nil
}

// LoadFromFile loads an election from a YAML file.
// LoadFromFile returns a *ports.ConfigError wrapping ports.ErrConfigNotFound
// when the file does not exist, and an error if parsing, validation, or
// poll list construction fails.
func (el *ElectionLoader) LoadFromFile(ctx context.Context, path string) (*Election, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ports.NewConfigError(cleanPath, ports.ErrConfigNotFound)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return el.load(ctx, data)
}

// LoadFromReader loads an election from any io.Reader. It reads all data
// into memory and applies the same caching and validation as LoadFromFile.
func (el *ElectionLoader) LoadFromReader(ctx context.Context, r io.Reader) (*Election, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return el.load(ctx, data)
}

func (el *ElectionLoader) load(ctx context.Context, data []byte) (*Election, error) {
	ctx, span := el.tracer.Start(ctx, "ElectionLoader.Load",
		trace.WithAttributes(attribute.Int("config.bytes", len(data))))
	defer span.End()

	election, err := el.loadConfig(ctx, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("election.name", election.Name),
		attribute.Int("election.polls", election.PollList.Len()),
		attribute.Int("election.parties", len(election.PartyNames)),
	)
	span.SetStatus(codes.Ok, "election loaded")
	return election, nil
}

func (el *ElectionLoader) loadConfig(ctx context.Context, data []byte) (*Election, error) {
	// Parse first so the hash is taken over the normalized form.
	config, err := el.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	hash, err := el.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := el.sf.Do(hash, func() (any, error) {
		if cached, ok := el.getCachedConfig(hash); ok {
			return cached, nil
		}

		if err := el.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		el.cacheConfig(hash, config)
		return config, nil
	})
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return buildElection(v.(*ElectionConfig))
}

// parseYAML decodes in strict mode so a misspelled key is an error rather
// than a silently ignored field.
func (el *ElectionLoader) parseYAML(data []byte) (*ElectionConfig, error) {
	var config ElectionConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

func (el *ElectionLoader) validateConfig(config *ElectionConfig) error {
	if err := el.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}

	if err := ValidateElectionSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}

	return nil
}

// buildElection populates a new PollList from a validated configuration.
// Parties are attached to each poll in declaration order, so every poll in
// the list shares one layout.
func buildElection(config *ElectionConfig) (*Election, error) {
	capacity := config.Election.MaxPolls
	if capacity == 0 {
		capacity = len(config.Polls)
	}

	election := &Election{
		Name:       config.Election.Name,
		PartyNames: make([]string, 0, len(config.Parties)),
		Colours:    make(map[string]color.RGBA),
		PollList:   domain.NewPollList(capacity, config.Election.TotalSeats),
	}

	canonical := make(map[string]string, len(config.Parties))
	for _, party := range config.Parties {
		election.PartyNames = append(election.PartyNames, party.Name)
		canonical[domain.FoldName(party.Name)] = party.Name
		if party.Colour == "" {
			continue
		}
		c, err := ParseHexColour(party.Colour)
		if err != nil {
			return nil, fmt.Errorf("party %q: %w", party.Name, err)
		}
		election.Colours[party.Name] = c
	}

	for _, pc := range config.Polls {
		poll := domain.NewPoll(pc.Name, len(config.Parties))
		for _, proj := range pc.Projections {
			name := canonical[domain.FoldName(proj.Party)]
			party, err := domain.NewParty(name, proj.Seats, proj.VoteShare)
			if err != nil {
				return nil, fmt.Errorf("poll %q: %w", pc.Name, err)
			}
			if c, ok := election.Colours[name]; ok {
				party.SetColour(c)
			}
			if _, err := poll.AddParty(party); err != nil {
				return nil, fmt.Errorf("poll %q: %w", pc.Name, err)
			}
		}
		if err := election.PollList.AddPoll(poll); err != nil {
			return nil, fmt.Errorf("failed to add poll: %w", err)
		}
	}

	return election, nil
}

// calculateConfigHash hashes the re-encoded config so that whitespace and
// key order in the source do not defeat the cache.
func (el *ElectionLoader) calculateConfigHash(config *ElectionConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

func (el *ElectionLoader) getCachedConfig(hash string) (*ElectionConfig, bool) {
	el.cacheMu.RLock()
	defer el.cacheMu.RUnlock()

	config, ok := el.cache[hash]
	return config, ok
}

func (el *ElectionLoader) cacheConfig(hash string, config *ElectionConfig) {
	el.cacheMu.Lock()
	defer el.cacheMu.Unlock()

	el.cache[hash] = config
}

// CacheSize reports how many validated configurations are cached.
func (el *ElectionLoader) CacheSize() int {
	el.cacheMu.RLock()
	defer el.cacheMu.RUnlock()

	return len(el.cache)
}

// ClearCache removes all cached configurations, forcing subsequent loads
// to validate again. ClearCache is safe for concurrent use.
func (el *ElectionLoader) ClearCache() {
	el.cacheMu.Lock()
	defer el.cacheMu.Unlock()

	el.cache = make(map[string]*ElectionConfig)
}
