package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stampgo/pkg/bitstamp"
	"stampgo/pkg/core"
)

// EnvPrefix is prepended to every environment variable the CLI reads, e.g. STAMPCTL_API_KEY.
const EnvPrefix = "STAMPCTL"

// Version info set by main package
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "unknown",
	BuildDate: "unknown",
}

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// app carries the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	logger zerolog.Logger
	// clientOpts are appended to the options every client is built with.
	clientOpts []bitstamp.Option
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd(clientOpts ...bitstamp.Option) *cobra.Command {
	a := &app{
		v:          viper.New(),
		logger:     zerolog.Nop(),
		clientOpts: clientOpts,
	}

	root := &cobra.Command{
		Use:   "stampctl",
		Short: "Query Bitstamp market data and manage an account",
		Long: `stampctl talks to the Bitstamp v1 REST API.

Market-data commands need no credentials. Account commands read customer_id,
api_key and secret_key from the config file or from STAMPCTL_* environment
variables. Every call passes the client-side quota of 600 requests per 600 seconds.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("base-url", core.DefaultBaseURL, "exchange root URL")
	flags.Duration("timeout", 10*time.Second, "per-request timeout")
	flags.BoolP("verbose", "v", false, "verbose output (sets log level to debug)")
	flags.StringP("output", "o", "json", "output format: json or table")
	flags.Bool("no-rate-limit", false, "disable the client-side request quota")

	for _, name := range []string{"config", "base-url", "timeout", "verbose", "output", "no-rate-limit"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	root.AddCommand(
		a.newVersionCmd(),
		a.newTickerCmd(),
		a.newOrderBookCmd(),
		a.newTransactionsCmd(),
		a.newBitinstantCmd(),
		a.newConversionRateCmd(),
		a.newBalanceCmd(),
		a.newUserTransactionsCmd(),
		a.newOpenOrdersCmd(),
		a.newCancelCmd(),
		a.newBuyCmd(),
		a.newSellCmd(),
		a.newWithdrawalsCmd(),
		a.newDepositAddressCmd(),
	)
	return root
}

// initConfig reads the optional config file and environment, then sets up logging.
func (a *app) initConfig(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return fmt.Errorf("config file not found: %s", cfgFile)
			}
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.v.GetBool("verbose"))
	if a.v.ConfigFileUsed() != "" {
		a.logger.Debug().Str("path", a.v.ConfigFileUsed()).Msg("using config file")
	}

	if a.v.GetBool("no_rate_limit") {
		bitstamp.SetRateLimitEnabled(false)
		a.logger.Debug().Msg("request quota disabled")
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func (a *app) coreConfig() *core.Config {
	level := "warn"
	if a.v.GetBool("verbose") {
		level = "debug"
	}
	return core.DefaultConfig().
		WithBaseURL(a.v.GetString("base_url")).
		WithTimeout(a.v.GetDuration("timeout")).
		WithUserAgent("stampctl/" + versionInfo.Version).
		WithLogLevel(level)
}

func (a *app) options() []bitstamp.Option {
	opts := []bitstamp.Option{bitstamp.WithLogger(a.logger)}
	return append(opts, a.clientOpts...)
}

// credentials returns the configured account credentials, or core.ErrNoCredentials
// when any of the three values is missing.
func (a *app) credentials() (core.Credentials, error) {
	creds := core.Credentials{
		CustomerID: a.v.GetString("customer_id"),
		APIKey:     a.v.GetString("api_key"),
		SecretKey:  a.v.GetString("secret_key"),
	}
	if creds.CustomerID == "" || creds.APIKey == "" || creds.SecretKey == "" {
		return creds, fmt.Errorf("%w: set customer_id, api_key and secret_key or %s_CUSTOMER_ID, %s_API_KEY, %s_SECRET_KEY",
			core.ErrNoCredentials, EnvPrefix, EnvPrefix, EnvPrefix)
	}
	return creds, nil
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stampctl %s (commit %s, built %s)\n",
				versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
			return err
		},
	}
}
