// Package cli implements the interactive poll tracking session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ahrav/go-polltrack/internal/application"
	"github.com/ahrav/go-polltrack/internal/domain"
	"github.com/ahrav/go-polltrack/internal/ports"
)

// ErrNoGenerator is returned when random polls are requested but the
// session has no generator.
var ErrNoGenerator = errors.New("random poll generation unavailable")

// GeneratorFunc builds a poll list generator for an election.
type GeneratorFunc func(totalSeats int, partyNames []string) (ports.PollListGenerator, error)

// Defaults are offered at the prompts and used when the answer is blank.
// Zero values offer nothing.
type Defaults struct {
	Seats int
	Polls int
	Mode  string
}

// Session reads answers from an input stream and writes prompts and
// reports to an output stream. A Session is used once.
type Session struct {
	in  *bufio.Scanner
	out io.Writer

	defaults  Defaults
	generator GeneratorFunc
	logger    *slog.Logger
	metrics   ports.MetricsCollector
}

// Option configures a Session.
type Option func(*Session)

// WithDefaults sets the prompt defaults.
func WithDefaults(d Defaults) Option {
	return func(s *Session) { s.defaults = d }
}

// WithGenerator enables random poll lists.
func WithGenerator(fn GeneratorFunc) Option {
	return func(s *Session) { s.generator = fn }
}

// WithLogger sets the structured logger passed to the tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the collector passed to the tracker.
func WithMetrics(metrics ports.MetricsCollector) Option {
	return func(s *Session) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewSession returns a session reading from in and writing to out.
func NewSession(in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  slog.New(slog.DiscardHandler),
		metrics: ports.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run asks for the election setup, builds the poll list either randomly or
// from manual entry, then serves display commands until "quit" or the end
// of input.
func (s *Session) Run(ctx context.Context) error {
	s.println("Welcome to the poll tracker")

	tracker, metric, err := s.setup(ctx)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("input ended during setup: %w", io.ErrUnexpectedEOF)
	}
	if err != nil {
		return err
	}
	return s.serve(ctx, tracker, metric)
}

func (s *Session) setup(ctx context.Context) (*application.Tracker, domain.MetricKind, error) {
	metric := domain.Seats

	seats, err := s.askPositiveInt("How many seats are available in the election?", s.defaults.Seats, 0)
	if err != nil {
		return nil, metric, err
	}
	parties, err := s.askParties()
	if err != nil {
		return nil, metric, err
	}
	numPolls, err := s.askPositiveInt("How many polls do you want to track with this application?",
		s.defaults.Polls, application.MaxPolls)
	if err != nil {
		return nil, metric, err
	}
	random, err := s.askYesNo("Would you like me to create a random set of polls?")
	if err != nil {
		return nil, metric, err
	}
	if metric, err = s.askMetric(); err != nil {
		return nil, metric, err
	}

	tracker, err := s.buildTracker(ctx, seats, parties, numPolls, random)
	if err != nil {
		return nil, metric, err
	}
	s.logger.InfoContext(ctx, "session ready",
		"seats", seats, "parties", len(parties), "polls", tracker.PollList().Len(), "metric", metric.String())
	return tracker, metric, nil
}

func (s *Session) buildTracker(
	ctx context.Context,
	seats int,
	parties []string,
	numPolls int,
	random bool,
) (*application.Tracker, error) {
	opts := []application.TrackerOption{
		application.WithLogger(s.logger),
		application.WithMetrics(s.metrics),
	}

	if random {
		if s.generator == nil {
			return nil, ErrNoGenerator
		}
		gen, err := s.generator(seats, parties)
		if err != nil {
			return nil, fmt.Errorf("create generator: %w", err)
		}
		list, err := gen.GeneratePollList(ctx, numPolls)
		if err != nil {
			return nil, fmt.Errorf("generate polls: %w", err)
		}
		return application.NewTracker(list, parties, opts...)
	}

	tracker, err := application.NewTracker(domain.NewPollList(numPolls, seats), parties, opts...)
	if err != nil {
		return nil, err
	}
	for i := range tracker.PollList().Capacity() {
		poll, err := s.askPoll(i+1, parties)
		if err != nil {
			return nil, err
		}
		if err := tracker.AddPoll(ctx, poll); err != nil {
			return nil, err
		}
	}
	return tracker, nil
}

func (s *Session) askPoll(n int, parties []string) (*domain.Poll, error) {
	name, err := s.askNonEmpty(fmt.Sprintf("Enter the name of poll %d:", n))
	if err != nil {
		return nil, err
	}
	poll := domain.NewPoll(name, len(parties))
	for _, partyName := range parties {
		seats, err := s.askFloat(fmt.Sprintf("Enter the expected number of seats for %s:", partyName), 0, -1)
		if err != nil {
			return nil, err
		}
		share, err := s.askFloat(fmt.Sprintf("Enter the expected share of the vote for %s (0-1):", partyName), 0, 1)
		if err != nil {
			return nil, err
		}
		party, err := domain.NewParty(partyName, seats, share)
		if err != nil {
			return nil, err
		}
		if _, err := poll.AddParty(party); err != nil {
			return nil, err
		}
	}
	return poll, nil
}

const menu = "\nOptions: all (show result of all polls), aggregate (show aggregate result), " +
	"poll <name>, party <name>, quit (end application)\nChoose an option:"

func (s *Session) serve(ctx context.Context, tracker *application.Tracker, metric domain.MetricKind) error {
	for {
		line, err := s.ask(menu)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		command, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch strings.ToLower(command) {
		case "all":
			err = s.printReport(tracker.RenderAll(ctx, metric))
		case "aggregate":
			err = s.printReport(tracker.RenderAggregate(ctx, metric))
		case "poll":
			poll, findErr := tracker.FindPoll(arg)
			if application.IsNotFound(findErr) {
				s.printf("No poll named %q.\n", arg)
				continue
			}
			if findErr != nil {
				return findErr
			}
			err = s.printReport(tracker.RenderPoll(ctx, poll, metric))
		case "party":
			s.showParty(tracker, arg)
		case "quit":
			return nil
		case "":
		default:
			s.printf("Unknown option %q.\n", command)
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) showParty(tracker *application.Tracker, name string) {
	suggestion, ok := tracker.SuggestParty(name)
	if !ok {
		s.printf("Unknown party %q.\n", name)
		return
	}
	if domain.FoldName(suggestion) != domain.FoldName(name) {
		s.printf("Unknown party %q. Did you mean %q?\n", name, suggestion)
		return
	}
	s.println(tracker.PollList().AveragePartyData(suggestion).String())
}

func (s *Session) printReport(report application.Report, err error) error {
	if err != nil {
		return err
	}
	s.printf("%s", report.Body)
	return nil
}

func (s *Session) askParties() ([]string, error) {
	for {
		line, err := s.ask("Which parties are in the election (provide names, comma separated):")
		if err != nil {
			return nil, err
		}
		parties, problem := parsePartyNames(line)
		if problem == "" {
			return parties, nil
		}
		s.println(problem)
	}
}

// parsePartyNames splits a comma-separated list, trimming blanks. It
// returns a non-empty problem description when the list cannot be used.
func parsePartyNames(line string) ([]string, string) {
	var names []string
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(line, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		key := domain.FoldName(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Sprintf("Party %q is listed twice.", name)
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	switch {
	case len(names) == 0:
		return nil, "Please name at least one party."
	case len(names) > domain.MaxPartiesPerPoll:
		return nil, fmt.Sprintf("At most %d parties are supported.", domain.MaxPartiesPerPoll)
	}
	return names, ""
}

func (s *Session) askMetric() (domain.MetricKind, error) {
	for {
		line, err := s.askDefault("Would you like to visualize by seats or by votes?", s.defaults.Mode)
		if err != nil {
			return domain.Seats, err
		}
		if m, ok := domain.ParseMetricKind(line); ok {
			return m, nil
		}
		s.println("Please answer seats or votes.")
	}
}

func (s *Session) askYesNo(question string) (bool, error) {
	for {
		line, err := s.ask(question)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		s.println("Please answer yes or no.")
	}
}

// askPositiveInt reads a whole number of at least one; a positive hi also
// bounds it from above.
func (s *Session) askPositiveInt(question string, def, hi int) (int, error) {
	defText := ""
	if def > 0 {
		defText = strconv.Itoa(def)
	}
	for {
		line, err := s.askDefault(question, defText)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n > 0 && (hi <= 0 || n <= hi) {
			return n, nil
		}
		if hi > 0 {
			s.printf("Please enter a whole number between 1 and %d.\n", hi)
		} else {
			s.println("Please enter a positive whole number.")
		}
	}
}

// askFloat reads a number in [lo, hi]; a negative hi means no upper bound.
func (s *Session) askFloat(question string, lo, hi float64) (float64, error) {
	for {
		line, err := s.ask(question)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err == nil && v >= lo && (hi < 0 || v <= hi) {
			return v, nil
		}
		if hi < 0 {
			s.printf("Please enter a number of at least %g.\n", lo)
		} else {
			s.printf("Please enter a number between %g and %g.\n", lo, hi)
		}
	}
}

func (s *Session) askNonEmpty(question string) (string, error) {
	for {
		line, err := s.ask(question)
		if err != nil || line != "" {
			return line, err
		}
		s.println("Please enter a name.")
	}
}

func (s *Session) askDefault(question, def string) (string, error) {
	if def != "" {
		question = fmt.Sprintf("%s [%s]", question, def)
	}
	line, err := s.ask(question)
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// ask prints question and returns the next trimmed input line. It returns
// io.EOF when input is exhausted.
func (s *Session) ask(question string) (string, error) {
	fmt.Fprint(s.out, question+" ")
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) println(msg string) { fmt.Fprintln(s.out, msg) }

func (s *Session) printf(format string, args ...any) { fmt.Fprintf(s.out, format, args...) }
