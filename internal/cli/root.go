// Package cli implements the typedbuf command line. Commands read JSON or
// base64 on stdin and write results to stdout; logs and spans go to stderr.
package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/typedbuf/pkg/codec"
	"github.com/ajitpratap0/typedbuf/pkg/config"
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/logger"
	"github.com/ajitpratap0/typedbuf/pkg/observability"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// Version is overridden at build time with -ldflags.
var Version = "0.1.0"

// EnvPrefix prefixes environment overrides, e.g. TYPEDBUF_CODEC_NARROWING.
const EnvPrefix = "TYPEDBUF"

// App holds the state shared by every command of one invocation.
type App struct {
	in  io.Reader
	out io.Writer

	v        *viper.Viper
	cfg      *config.Config
	log      *zap.Logger
	shutdown observability.ShutdownFunc
}

// NewRootCommand builds the command tree reading from in and writing to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	app := &App{in: in, out: out, v: viper.New()}

	root := &cobra.Command{
		Use:   "typedbuf",
		Short: "typedbuf - typed numeric sequence and buffer conversion",
		Long: `typedbuf converts numeric sequences between JSON, raw little/big endian
buffers, base64 text, columnar payloads and Arrow IPC, and computes
fixed-width histograms.`,
		SilenceUsage:       true,
		PersistentPreRunE:  app.setup,
		PersistentPostRunE: app.teardown,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.Bool("trace", false, "Export OpenTelemetry spans to stderr")
	_ = app.v.BindPFlag("config", pf.Lookup("config"))
	_ = app.v.BindPFlag("observability.log_level", pf.Lookup("log-level"))
	_ = app.v.BindPFlag("observability.enable_tracing", pf.Lookup("trace"))

	app.v.SetEnvPrefix(EnvPrefix)
	app.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	app.v.AutomaticEnv()

	root.AddCommand(
		app.encodeCommand(),
		app.decodeCommand(),
		app.histCommand(),
		app.columnsCommand(),
		app.rowsCommand(),
		app.endianCommand(),
		app.versionCommand(),
	)
	return root
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.NewDefaultConfig()
	if path := a.v.GetString("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return err
		}
	}
	a.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "initialize logger")
	}

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig()
		tc.ServiceName = cfg.Name
		tc.ServiceVersion = Version
		tc.SamplingRate = cfg.Observability.TracingSampleRate
		shutdown, err := observability.InitTracing(tc)
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}

	a.cfg = cfg
	a.log = logger.With(zap.String("component", "typedbuf-cli"), zap.String("command", cmd.Name()))
	a.log.Debug("configuration loaded",
		zap.String("target", cfg.Codec.Target),
		zap.String("narrowing", cfg.Codec.Narrowing),
		zap.String("compression", cfg.Payload.Compression),
		zap.Bool("tracing", cfg.Observability.EnableTracing))
	return nil
}

// applyOverrides copies TYPEDBUF_* variables and changed flags over the
// file values.
func (a *App) applyOverrides(cfg *config.Config) {
	strs := map[string]*string{
		"name":                       &cfg.Name,
		"codec.target":               &cfg.Codec.Target,
		"codec.fallback":             &cfg.Codec.Fallback,
		"codec.narrowing":            &cfg.Codec.Narrowing,
		"payload.compression":        &cfg.Payload.Compression,
		"observability.log_level":    &cfg.Observability.LogLevel,
		"observability.log_encoding": &cfg.Observability.LogEncoding,
	}
	for key, dst := range strs {
		if a.v.IsSet(key) {
			*dst = a.v.GetString(key)
		}
	}

	bools := map[string]*bool{
		"codec.allow_lossy_fallback":   &cfg.Codec.AllowLossyFallback,
		"observability.development":    &cfg.Observability.Development,
		"observability.enable_tracing": &cfg.Observability.EnableTracing,
	}
	for key, dst := range bools {
		if a.v.IsSet(key) {
			*dst = a.v.GetBool(key)
		}
	}

	ints := map[string]*int{
		"histogram.bins": &cfg.Histogram.Bins,
		"payload.level":  &cfg.Payload.Level,
	}
	for key, dst := range ints {
		if a.v.IsSet(key) {
			*dst = a.v.GetInt(key)
		}
	}
}

func (a *App) teardown(cmd *cobra.Command, _ []string) error {
	var err error
	if a.shutdown != nil {
		err = a.shutdown(context.WithoutCancel(commandContext(cmd)))
		a.shutdown = nil
	}
	// Sync fails on stderr for some terminals; nothing useful to do then.
	_ = logger.Sync()
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// run executes fn inside a span named after the command.
func (a *App) run(cmd *cobra.Command, fn func(context.Context) error) error {
	ctx := context.WithValue(commandContext(cmd), logger.OperationKey, cmd.Name())
	err := observability.Trace(ctx, "typedbuf."+cmd.Name(), fn)
	if err != nil {
		logger.WithContext(ctx).Debug("command failed",
			zap.String("error_type", string(errors.TypeOf(err))),
			zap.Error(err))
	}
	return err
}

// codecOptions starts from the config and applies per-command flags.
func (a *App) codecOptions(target, fallback, narrowing string) (*codec.Options, error) {
	opts := a.cfg.CodecOptions()
	opts.Logger = a.log
	if target != "" {
		k, err := parseTypedKind("--kind", target)
		if err != nil {
			return nil, err
		}
		opts.Target = k
	}
	if fallback != "" {
		k, err := parseTypedKind("--fallback", fallback)
		if err != nil {
			return nil, err
		}
		opts.Fallback = k
	}
	if narrowing != "" {
		p, err := typedarray.ParsePolicy(narrowing)
		if err != nil {
			return nil, err
		}
		opts.Policy = p
	}
	return opts, nil
}

func parseTypedKind(flag, s string) (typedarray.Kind, error) {
	k, err := typedarray.ParseKind(s)
	if err != nil {
		return typedarray.Invalid, err
	}
	if !k.IsTyped() {
		return typedarray.Invalid, errors.Newf(errors.ErrorTypeValidation, "%s must be a typed kind, got %s", flag, k)
	}
	return k, nil
}

func (a *App) endianCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "endian",
		Short: "Print the host byte order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.out, codec.ByteOrderName())
			return err
		},
	}
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.out, "typedbuf v%s\nGo version: %s\nOS/Arch: %s/%s\n",
				Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
