package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-polltrack/internal/domain"
	"github.com/ahrav/go-polltrack/internal/ports"
)

// Report views.
const (
	ViewPoll      = "poll"
	ViewAll       = "all"
	ViewAggregate = "aggregate"
)

// Report is one rendered view of the tracked polls.
type Report struct {
	ID          uuid.UUID
	View        string
	Metric      domain.MetricKind
	Body        string
	GeneratedAt time.Time
}

// Tracker orchestrates display of an election's polls. It owns no state
// beyond the PollList it wraps and is not safe for concurrent mutation.
type Tracker struct {
	list       *domain.PollList
	partyNames []string

	logger  *slog.Logger
	metrics ports.MetricsCollector
	tracer  trace.Tracer
	now     func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics ports.MetricsCollector) TrackerOption {
	return func(t *Tracker) {
		if metrics != nil {
			t.metrics = metrics
		}
	}
}

// WithClock overrides the time source used for Report.GeneratedAt.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker wraps list. partyNames are the parties the aggregate covers,
// in display order; the slice is copied.
func NewTracker(list *domain.PollList, partyNames []string, opts ...TrackerOption) (*Tracker, error) {
	if list == nil {
		return nil, fmt.Errorf("poll list: %w", domain.ErrNilInput)
	}

	t := &Tracker{
		list:       list,
		partyNames: append([]string(nil), partyNames...),
		logger:     slog.New(slog.DiscardHandler),
		metrics:    ports.NoopMetrics{},
		tracer:     otel.Tracer("poll-tracker"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// PollList returns the wrapped list.
func (t *Tracker) PollList() *domain.PollList { return t.list }

// PartyNames returns a copy of the tracked party names.
func (t *Tracker) PartyNames() []string { return append([]string(nil), t.partyNames...) }

// AddPoll appends poll to the list and records the outcome.
func (t *Tracker) AddPoll(ctx context.Context, poll *domain.Poll) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := t.now()
	err := t.list.AddPoll(poll)
	t.metrics.RecordLatency("add_poll", t.now().Sub(start), map[string]string{"view": ViewPoll})

	if err != nil {
		t.metrics.RecordCounter(ports.MetricPollsAdded, 1, map[string]string{"result": "rejected"})
		t.logger.WarnContext(ctx, "poll rejected", "error", err, "polls", t.list.Len(), "capacity", t.list.Capacity())
		return err
	}

	t.metrics.RecordCounter(ports.MetricPollsAdded, 1, map[string]string{"result": "added"})
	t.metrics.RecordGauge(ports.MetricPollsTracked, float64(t.list.Len()), nil)
	t.logger.InfoContext(ctx, "poll added", "poll", poll.Name(), "parties", poll.Len())
	return nil
}

// FindPoll returns the first poll whose name matches, compared
// case-insensitively. It returns an error wrapping domain.ErrNotFound when
// no poll matches.
func (t *Tracker) FindPoll(name string) (*domain.Poll, error) {
	key := domain.FoldName(name)
	for _, poll := range t.list.Polls() {
		if domain.FoldName(poll.Name()) == key {
			return poll, nil
		}
	}
	return nil, fmt.Errorf("poll %q: %w", name, domain.ErrNotFound)
}

// RenderPoll renders a single poll at the list's scale for metric.
func (t *Tracker) RenderPoll(ctx context.Context, poll *domain.Poll, metric domain.MetricKind) (Report, error) {
	if poll == nil {
		return Report{}, fmt.Errorf("poll: %w", domain.ErrNilInput)
	}
	return t.render(ctx, ViewPoll, metric, func() (string, int, error) {
		body, err := poll.TextVisualization(metric, domain.MaxStarsForVisualization, t.perStar(metric))
		return body, poll.Len(), err
	})
}

// RenderAggregate renders the cross-poll average of every tracked party.
func (t *Tracker) RenderAggregate(ctx context.Context, metric domain.MetricKind) (Report, error) {
	return t.render(ctx, ViewAggregate, metric, func() (string, int, error) {
		return t.aggregateBody(ctx, metric)
	})
}

// RenderAll renders every occupied poll followed by the aggregate poll.
func (t *Tracker) RenderAll(ctx context.Context, metric domain.MetricKind) (Report, error) {
	return t.render(ctx, ViewAll, metric, func() (string, int, error) {
		polls, err := t.list.TextVisualization(metric)
		if err != nil {
			return "", 0, err
		}
		agg, aggParties, err := t.aggregateBody(ctx, metric)
		if err != nil {
			return "", 0, err
		}
		parties := aggParties
		for _, poll := range t.list.Polls() {
			parties += poll.Len()
		}
		return polls + agg, parties, nil
	})
}

func (t *Tracker) aggregateBody(ctx context.Context, metric domain.MetricKind) (string, int, error) {
	aggregate, err := t.list.AggregatePoll(t.partyNames)
	if err != nil {
		// Parties beyond a poll's capacity are left out of the aggregate.
		t.logger.WarnContext(ctx, "aggregate truncated", "error", err, "parties", len(t.partyNames))
	}
	body, err := aggregate.TextVisualization(metric, domain.MaxStarsForVisualization, t.perStar(metric))
	return body, aggregate.Len(), err
}

func (t *Tracker) perStar(metric domain.MetricKind) float64 {
	return float64(t.list.AmountPerStar(metric))
}

func (t *Tracker) render(
	ctx context.Context,
	view string,
	metric domain.MetricKind,
	build func() (string, int, error),
) (Report, error) {
	ctx, span := t.tracer.Start(ctx, "Tracker.Render",
		trace.WithAttributes(
			attribute.String("report.view", view),
			attribute.String("report.metric", metric.String()),
		))
	defer span.End()

	labels := map[string]string{"view": view, "metric": metric.String()}
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}

	start := t.now()
	body, parties, err := build()
	t.metrics.RecordLatency("render", t.now().Sub(start), labels)
	if err != nil {
		labels["status"] = "error"
		t.metrics.RecordCounter(ports.MetricRenders, 1, labels)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.ErrorContext(ctx, "render failed", "view", view, "metric", metric.String(), "error", err)
		return Report{}, fmt.Errorf("render %s: %w", view, err)
	}

	labels["status"] = "success"
	t.metrics.RecordCounter(ports.MetricRenders, 1, labels)
	t.metrics.RecordHistogram(ports.MetricPartiesRendered, float64(parties), map[string]string{"view": view})

	report := Report{
		ID:          uuid.New(),
		View:        view,
		Metric:      metric,
		Body:        body,
		GeneratedAt: t.now(),
	}
	span.SetAttributes(
		attribute.String("report.id", report.ID.String()),
		attribute.Int("report.parties", parties),
	)
	span.SetStatus(codes.Ok, "report rendered")
	t.logger.DebugContext(ctx, "report rendered", "id", report.ID, "view", view, "parties", parties)
	return report, nil
}

// SuggestParty returns the tracked party name closest to name by
// Levenshtein distance over case-folded names. A suggestion is only made
// when the distance is at most half the length of name; an exact folded
// match is returned as is.
func (t *Tracker) SuggestParty(name string) (string, bool) {
	input := domain.FoldName(strings.TrimSpace(name))
	if input == "" {
		return "", false
	}
	limit := utf8.RuneCountInString(input) / 2

	best, bestDist := "", -1
	for _, candidate := range t.partyNames {
		d := levenshtein.ComputeDistance(input, domain.FoldName(candidate))
		if d > limit {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best, bestDist >= 0
}

// IsNotFound reports whether err means a lookup found nothing.
func IsNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
