package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-polltrack/infrastructure/factory"
	"github.com/ahrav/go-polltrack/infrastructure/middleware"
	"github.com/ahrav/go-polltrack/internal/application"
	"github.com/ahrav/go-polltrack/internal/cli"
	"github.com/ahrav/go-polltrack/internal/domain"
	"github.com/ahrav/go-polltrack/internal/ports"
)

// app carries the collaborators shared by every subcommand. They are built
// in the root command's pre-run so that output streams set on the command
// are honoured.
type app struct {
	cfg         Config
	metricsFile string

	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  ports.MetricsCollector
}

func newRootCommand(cfg Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:          "polltrack",
		Short:        "Track election polls and draw them as star bars",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := a.cfg.Level()
			if err != nil {
				return err
			}
			a.logger = newLogger(cmd.ErrOrStderr(), level)
			a.registry = prometheus.NewRegistry()
			a.metrics = middleware.NewPrometheusMetrics(a.registry)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.writeMetrics()
		},
	}
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "",
		"write collected metrics in the Prometheus text format to this file on exit")

	root.AddCommand(a.runCommand(), a.showCommand(), a.generateCommand())
	return root
}

func (a *app) runCommand() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed = a.resolveSeed(seed)
			session := cli.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(),
				cli.WithDefaults(cli.Defaults{Seats: a.cfg.Seats, Polls: a.cfg.Polls, Mode: a.cfg.Mode}),
				cli.WithGenerator(func(seats int, names []string) (ports.PollListGenerator, error) {
					return factory.NewRandomPollFactory(factory.Config{TotalSeats: seats, PartyNames: names, Seed: seed})
				}),
				cli.WithLogger(a.logger),
				cli.WithMetrics(a.metrics),
			)
			return session.Run(cmd.Context())
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", a.cfg.Seed, "seed for random polls; 0 picks one from the clock")
	return cmd
}

func (a *app) showCommand() *cobra.Command {
	var (
		path      string
		mode      string
		aggregate bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Draw the polls of an election file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metric, ok := domain.ParseMetricKind(mode)
			if !ok {
				return fmt.Errorf("unknown mode %q: want seats or votes", mode)
			}

			loader, err := application.NewElectionLoader()
			if err != nil {
				return err
			}
			election, err := loader.LoadFromFile(cmd.Context(), path)
			if err != nil {
				return err
			}

			tracker, err := application.NewTracker(election.PollList, election.PartyNames,
				application.WithLogger(a.logger.With("election", election.Name)),
				application.WithMetrics(a.metrics),
			)
			if err != nil {
				return err
			}

			var report application.Report
			if aggregate {
				report, err = tracker.RenderAggregate(cmd.Context(), metric)
			} else {
				report, err = tracker.RenderAll(cmd.Context(), metric)
			}
			if err != nil {
				return err
			}
			a.logger.Debug("report rendered", "id", report.ID, "view", report.View)
			_, err = fmt.Fprint(cmd.OutOrStdout(), report.Body)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "election file to load")
	cmd.Flags().StringVarP(&mode, "mode", "m", a.cfg.Mode, "visualize by seats or votes")
	cmd.Flags().BoolVar(&aggregate, "aggregate", false, "draw only the aggregate poll")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func (a *app) generateCommand() *cobra.Command {
	var (
		parties []string
		name    string
		polls   int
		seats   int
		seed    uint64
	)
	defaultPolls := a.cfg.Polls
	if defaultPolls == 0 {
		defaultPolls = domain.DefaultPollCapacity
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random election file to standard output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seats <= 0 || seats > application.MaxTotalSeats {
				return fmt.Errorf("--seats must be between 1 and %d, got %d", application.MaxTotalSeats, seats)
			}
			if polls <= 0 || polls > application.MaxPolls {
				return fmt.Errorf("--polls must be between 1 and %d, got %d", application.MaxPolls, polls)
			}
			seed = a.resolveSeed(seed)

			f, err := factory.NewRandomPollFactory(factory.Config{TotalSeats: seats, PartyNames: parties, Seed: seed})
			if err != nil {
				return err
			}
			list, err := f.GeneratePollList(cmd.Context(), polls)
			if err != nil {
				return err
			}
			a.logger.Info("election generated", "polls", list.Len(), "parties", len(parties), "seed", seed)
			return application.WriteElectionConfig(cmd.OutOrStdout(),
				application.ExportElection(name, list, parties, nil))
		},
	}
	cmd.Flags().StringSliceVarP(&parties, "parties", "p", nil, "comma separated party names")
	cmd.Flags().StringVar(&name, "name", "Generated Election", "election name")
	cmd.Flags().IntVar(&polls, "polls", defaultPolls, "number of polls")
	cmd.Flags().IntVar(&seats, "seats", a.cfg.Seats, "seats available in the election")
	cmd.Flags().Uint64Var(&seed, "seed", a.cfg.Seed, "random seed; 0 picks one from the clock")
	_ = cmd.MarkFlagRequired("parties")
	return cmd
}

func (a *app) resolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	seed = uint64(time.Now().UnixNano())
	a.logger.Debug("seed chosen from clock", "seed", seed)
	return seed
}

func (a *app) writeMetrics() error {
	if a.metricsFile == "" {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(a.metricsFile)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer f.Close()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
