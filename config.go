package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	content        string
	corsOrigins    []string
	hostTimeout    time.Duration
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	suddenDelay    time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
	watch          bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if strings.TrimSpace(c.content) == "" {
		return errors.New("--content must not be empty")
	}
	if c.suddenDelay < 0 {
		return fmt.Errorf("invalid sudden death delay (must not be negative): %s", c.suddenDelay)
	}
	if c.hostTimeout < 0 {
		return fmt.Errorf("invalid host timeout (must not be negative): %s", c.hostTimeout)
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout (must not be negative): %s", c.sessionTimeout)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FEUDBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "feudbox",
		Short:         "A host control panel for running a live survey-says game show.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: FEUDBOX_BIND)")
	fs.StringVarP(&cfg.content, "content", "c", "rounds.json", "path or http(s) url of the rounds document (env: FEUDBOX_CONTENT)")
	fs.StringSliceVar(&cfg.corsOrigins, "cors-origin", nil, "origin allowed to read game state cross-origin, repeatable (env: FEUDBOX_CORS_ORIGIN)")
	fs.DurationVar(&cfg.hostTimeout, "host-timeout", 5*time.Minute, "time before a disconnected host gives up the panel, 0 to never (env: FEUDBOX_HOST_TIMEOUT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: FEUDBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: FEUDBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: FEUDBOX_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 3*time.Hour, "time before idle games are ended, 0 to never (env: FEUDBOX_SESSION_TIMEOUT)")
	fs.DurationVar(&cfg.suddenDelay, "sudden-delay", 700*time.Millisecond, "pause between a winning sudden death answer and fast money (env: FEUDBOX_SUDDEN_DELAY)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: FEUDBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: FEUDBOX_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: FEUDBOX_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: FEUDBOX_VERSION)")
	fs.BoolVarP(&cfg.watch, "watch", "w", false, "reload the rounds document when the file changes (env: FEUDBOX_WATCH)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("feudbox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
