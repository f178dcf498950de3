package cmd

import (
	"fmt"
	"time"

	"gameframe/config"
	"gameframe/searcher"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// settings is shared by every subcommand once the root has loaded it.
type settings struct {
	config.Config
}

func Root() *cobra.Command {
	s := &settings{}

	root := &cobra.Command{
		Use:   "gameframe",
		Short: "Play, serve and study two-player games with a parallel tree search",
		Args:  cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			s.Config = cfg
			if err := s.override(cmd); err != nil {
				return err
			}

			level, err := zerolog.ParseLevel(s.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
			}
			// If --trace flag is provided, set logging level to Trace.
			if cmd.Flag("trace").Changed {
				level = zerolog.TraceLevel
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}

	// global flags
	flags := root.PersistentFlags()
	flags.BoolP("trace", "t", false, "Show Trace Information")
	flags.Int("goroutines", 0, "Search goroutines per move")
	flags.Int("episodes", 0, "Search episodes per move")
	flags.Duration("duration", 0, "Search time per move")
	flags.Int("cutoff", 0, "Rollout depth before falling back to the heuristic")
	flags.Uint64("seed", 0, "Random seed (0 seeds from the clock)")

	root.AddCommand(Play(s))
	root.AddCommand(Serve(s))
	root.AddCommand(Move(s))
	root.AddCommand(Experiment(s))

	return root
}

// override applies the search flags that were set explicitly on top of the loaded config.
func (s *settings) override(cmd *cobra.Command) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("goroutines") {
		s.Goroutines, err = flags.GetInt("goroutines")
	}
	if err == nil && flags.Changed("episodes") {
		s.Episodes, err = flags.GetInt("episodes")
	}
	if err == nil && flags.Changed("duration") {
		s.Duration, err = flags.GetDuration("duration")
	}
	if err == nil && flags.Changed("cutoff") {
		s.Cutoff, err = flags.GetInt("cutoff")
	}
	if err == nil && flags.Changed("seed") {
		s.Seed, err = flags.GetUint64("seed")
	}
	if err != nil {
		return err
	}
	return s.Validate()
}

func (s *settings) seed() uint64 {
	if s.Seed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return s.Seed
}

func (s *settings) searchOptions() []searcher.Option {
	options := []searcher.Option{searcher.WithSeed(s.seed())}
	if s.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(s.Episodes))
	}
	if s.Duration > 0 {
		options = append(options, searcher.WithDuration(s.Duration))
	}
	if s.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(s.Cutoff))
	}
	return options
}
