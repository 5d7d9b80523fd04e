package cli

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"matchgrid/internal/app"
	"matchgrid/internal/bot"
	"matchgrid/internal/config"
	"matchgrid/internal/platform/logger"
	"matchgrid/internal/ports/terminal"
	"matchgrid/internal/schedule"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// pollInterval is how often the play loop checks for due timers.
const pollInterval = 100 * time.Millisecond

func newPlayCommand() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal.",
		Long: "Type a card number to turn it over, p to pause, c to continue " +
			"and q to quit. When a game ends, answer y or n to play again.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			format, _ := cmd.Flags().GetString("log-format")
			botLevel, _ := cmd.Flags().GetString("bot")
			botDelay, _ := cmd.Flags().GetDuration("bot-delay")
			cfg, err := config.FromViper(v, configFile)
			if err != nil {
				return err
			}
			opts := playOptions{format: logger.Format(format), botDelay: botDelay}
			if botLevel != "" {
				if opts.botLevel, err = bot.ParseLevel(botLevel); err != nil {
					return err
				}
			}
			return play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.Int("rows", d.Rows, "grid rows")
	f.Int("columns", d.Columns, "grid columns")
	f.Int("time-limit", d.TimeLimitSeconds, "seconds to find every pair")
	f.Int("match-delay", d.MatchDelayMillis, "milliseconds two cards stay face up")
	f.String("log-level", d.LogLevel, "debug, info, warn or error")
	f.String("log-format", string(logger.FormatText), "text or json")
	f.String("config", "", "JSON or YAML config file")
	f.String("bot", "", "let a bot play: good, smart or god")
	f.Duration("bot-delay", 700*time.Millisecond, "pause between bot moves")

	_ = v.BindPFlag("rows", f.Lookup("rows"))
	_ = v.BindPFlag("columns", f.Lookup("columns"))
	_ = v.BindPFlag("time_limit_seconds", f.Lookup("time-limit"))
	_ = v.BindPFlag("match_delay_ms", f.Lookup("match-delay"))
	_ = v.BindPFlag("log_level", f.Lookup("log-level"))

	return cmd
}

type playOptions struct {
	format   logger.Format
	botLevel bot.BotLevel
	botDelay time.Duration
}

func play(ctx context.Context, in io.Reader, out, errOut io.Writer, cfg *config.GameConfig, opts playOptions) error {
	log := logger.New(errOut, cfg.LogLevel, opts.format)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctrl, err := app.NewController(cfg, schedule.New(), rng)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	ansi := isTerminal(out)
	start := time.Now()
	driver := &terminal.Driver{
		Controller:  ctrl,
		Renderer:    terminal.NewRenderer(out, ansi),
		Logger:      log,
		Ticks:       ticker.C,
		Elapsed:     func() time.Duration { return time.Since(start) },
		RedrawTicks: ansi,
		BotDelay:    opts.botDelay,
	}
	if opts.botLevel != 0 {
		brain, err := bot.NewBrain(opts.botLevel, rng)
		if err != nil {
			return err
		}
		driver.Bot = &bot.Agent{ID: "bot", Name: "bot", Strategy: brain}
	}

	log.Debug("Play: %dx%d grid, %ds limit, ansi=%t", cfg.Rows, cfg.Columns, cfg.TimeLimitSeconds, ansi)
	err = driver.Run(ctx, terminal.ReadLines(ctx, in))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
