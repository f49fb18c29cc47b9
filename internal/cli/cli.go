// Package cli implements the nepdate command-line interface.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nepdate/internal/metrics"
	"github.com/matzehuels/nepdate/pkg/buildinfo"
	"github.com/matzehuels/nepdate/pkg/nepdate"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nepdate"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out      io.Writer // command output
	errOut   io.Writer // spinner and metrics summary
	progress bool      // animate a spinner during network calls
	now      func() time.Time

	opts    globalOptions
	cfg     Config
	doer    nepdate.Doer
	cache   *nepdate.Cache
	metrics *metrics.Recorder
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	userAgent  string
	noCache    bool
	noValidate bool
	metrics    bool
	json       bool
}

// New creates a new CLI instance with a default logger writing to w.
// Command output goes to stdout until [CLI.SetOutput] is called.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		out:      os.Stdout,
		errOut:   w,
		progress: isTerminal(w),
		now:      time.Now,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "nepdate converts dates between AD and Bikram Sambat",
		Long:          `nepdate converts dates between the Gregorian (AD) and Bikram Sambat (BS) calendars using a remote conversion API, with retries, caching and batch conversion.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.printMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	f := root.PersistentFlags()
	f.StringVar(&c.opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/nepdate/config.toml)")
	f.StringVar(&c.opts.baseURL, "base-url", "", "conversion API base URL")
	f.DurationVar(&c.opts.timeout, "timeout", 0, "per-request timeout")
	f.IntVar(&c.opts.retries, "retries", 0, "attempts per conversion")
	f.DurationVar(&c.opts.retryDelay, "retry-delay", 0, "wait after the first failed attempt, doubled per retry")
	f.StringVar(&c.opts.userAgent, "user-agent", "", "User-Agent header sent with each request")
	f.BoolVar(&c.opts.noCache, "no-cache", false, "disable the in-process result cache")
	f.BoolVar(&c.opts.noValidate, "no-validate", false, "send dates to the API without local range checks")
	f.BoolVar(&c.opts.metrics, "metrics", false, "print request metrics to stderr when done")
	f.BoolVar(&c.opts.json, "json", false, "print results as JSON")

	// Register all subcommands
	root.AddCommand(c.convertCommand(nepdate.ADToBS))
	root.AddCommand(c.convertCommand(nepdate.BSToAD))
	root.AddCommand(c.todayCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.formatCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Conversion Chain
// =============================================================================

// setup resolves the effective config and builds the conversion chain:
// validation, then cache, then retry, then the HTTP client.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.opts.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = c.opts.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = duration(c.opts.timeout)
	}
	if flags.Changed("retries") {
		cfg.MaxRetries = c.opts.retries
	}
	if flags.Changed("retry-delay") {
		cfg.RetryBaseDelay = duration(c.opts.retryDelay)
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = c.opts.userAgent
	}
	if c.opts.noValidate {
		cfg.Validate = false
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	c.cfg = cfg

	if c.opts.metrics {
		c.metrics = metrics.New()
		c.metrics.Install()
	}

	opts := []nepdate.Option{
		nepdate.WithBaseURL(cfg.BaseURL),
		nepdate.WithTimeout(time.Duration(cfg.Timeout)),
		nepdate.WithLogger(c.Logger),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, nepdate.WithUserAgent(cfg.UserAgent))
	}
	client := nepdate.NewClient(opts...)

	var d nepdate.Doer = nepdate.RetryingDoer{
		Next: client,
		Retrier: &nepdate.Retrier{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Duration(cfg.RetryBaseDelay),
			Logger:     c.Logger,
		},
	}
	c.cache = nil
	if !c.opts.noCache {
		c.cache = nepdate.NewCache(d).WithLogger(c.Logger)
		d = c.cache
	}
	if cfg.Validate {
		d = nepdate.ValidatingDoer{Next: d}
	}
	c.doer = d

	c.Logger.Debug("conversion chain ready",
		"base_url", cfg.BaseURL,
		"timeout", time.Duration(cfg.Timeout),
		"retries", cfg.MaxRetries,
		"cache", !c.opts.noCache,
		"validate", cfg.Validate)
	return nil
}

func (c *CLI) printMetrics() error {
	if c.metrics == nil {
		return nil
	}
	lines, err := c.metrics.Summary()
	if err != nil {
		return err
	}
	for _, line := range lines {
		printTo(c.errOut, "  "+StyleDim.Render(line))
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
