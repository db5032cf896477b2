// Package cmd implements the jwtlite command line tool.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cybergodev/jwtlite"
	"github.com/cybergodev/jwtlite/internal/logging"
	"github.com/cybergodev/jwtlite/internal/security"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Environment variables read when the matching flag is not given.
const (
	envSecret    = "JWTLITE_SECRET"
	envConfig    = "JWTLITE_CONFIG"
	envLogLevel  = "JWTLITE_LOG_LEVEL"
	envLogFormat = "JWTLITE_LOG_FORMAT"
)

type rootOptions struct {
	configPath      string
	secret          string
	secretFile      string
	logLevel        string
	logFormat       string
	metricsTextfile string

	logger   *zap.Logger
	registry *prometheus.Registry
	getenv   func(string) string
}

// NewRootCommand builds the command tree. getenv is used for environment lookups so tests
// stay hermetic; nil means os.Getenv.
func NewRootCommand(getenv func(string) string) *cobra.Command {
	if getenv == nil {
		getenv = os.Getenv
	}
	opts := &rootOptions{getenv: getenv}

	rootCmd := &cobra.Command{
		Use:   "jwtlite",
		Short: "Sign and verify HMAC signed tokens",
		Long: `jwtlite signs JSON payloads into compact HMAC tokens and verifies them.

Tokens have three base64 segments: a header {alg, typ, expireDate}, the payload
and the HMAC over the first two. Supported algorithms are HS256, HS384 and HS512.

The secret is taken from --secret, --secret-file or the JWTLITE_SECRET
environment variable. It is never read from the configuration file.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.SetVersionTemplate(versionString() + "\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file (env "+envConfig+")")
	flags.StringVar(&opts.secret, "secret", "", "Shared secret (env "+envSecret+")")
	flags.StringVar(&opts.secretFile, "secret-file", "", "Read the shared secret from a file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (env "+envLogLevel+")")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json (env "+envLogFormat+")")
	flags.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		newSignCommand(opts),
		newVerifyCommand(opts),
		newInspectCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand(nil)
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// printError writes library errors as their {name, message} object and anything else as text.
func printError(w io.Writer, err error) {
	var tokenErr *jwtlite.Error
	if errors.As(err, &tokenErr) {
		data, _ := tokenErr.MarshalJSON()
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	logCfg := logging.DefaultConfig()
	if level := firstNonEmpty(o.logLevel, o.getenv(envLogLevel)); level != "" {
		logCfg.Level = level
	}
	if format := firstNonEmpty(o.logFormat, o.getenv(envLogFormat)); format != "" {
		logCfg.Format = logging.Format(format)
	}

	logger, err := logging.NewLogger(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.logger, _ = logging.WithInvocation(logger)
	o.logger = o.logger.With(zap.String("command", cmd.Name()))

	if o.metricsTextfile != "" {
		o.registry = prometheus.NewRegistry()
	}
	return nil
}

// withTeardown wraps a RunE so logs and metrics are flushed whether or not it fails.
// Cobra skips post-run hooks after an error, and rejections are what the metrics count.
func (o *rootOptions) withTeardown(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if terr := o.teardown(); terr != nil && err == nil {
			err = terr
		}
		return err
	}
}

func (o *rootOptions) teardown() error {
	if o.logger != nil {
		_ = o.logger.Sync()
	}
	if o.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(o.metricsTextfile, o.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// config loads the YAML file when one is given and attaches the logger and metrics.
func (o *rootOptions) config() (jwtlite.Config, error) {
	cfg := jwtlite.DefaultConfig()

	if path := firstNonEmpty(o.configPath, o.getenv(envConfig)); path != "" {
		loaded, err := jwtlite.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		o.logger.Debug("configuration loaded", zap.String("path", path))
	}

	cfg.Logger = o.logger
	if o.registry != nil {
		cfg.Registerer = o.registry
	}
	return cfg, nil
}

func (o *rootOptions) codec(configure func(*jwtlite.Config)) (*jwtlite.Codec, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	if configure != nil {
		configure(&cfg)
	}
	return jwtlite.New(cfg)
}

// loadSecret resolves the secret from flag, file or environment, in that order. A missing
// secret is returned as empty so the library reports it with its own error.
func (o *rootOptions) loadSecret() ([]byte, error) {
	var secret []byte
	switch {
	case o.secret != "":
		secret = []byte(o.secret)
	case o.secretFile != "":
		data, err := os.ReadFile(o.secretFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read secret file: %w", err)
		}
		secret = []byte(strings.TrimRight(string(data), "\r\n"))
	default:
		secret = []byte(o.getenv(envSecret))
	}

	if len(secret) > 0 {
		if reasons := security.WeakKeyReasons(secret); len(reasons) > 0 {
			o.logger.Warn("weak secret", zap.Strings("reasons", reasons))
		}
	}
	return secret, nil
}

// readInput returns the positional argument, or stdin when it is absent or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
