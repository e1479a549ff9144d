package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/logging"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"
)

var (
	cfgFile string
	v       = viper.New()
	cfg     *config.Config
	logger  logging.ZapLogger
)

var rootCmd = &cobra.Command{
	Use:           serviceName,
	Short:         "Answer questions about NBA players' per-game stats",
	Long:          "Ask questions like \"How many away games in last 20 has Giannis Antetokounmpo scored 30+ points?\"",
	Version:       serviceVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file: %w", err)
			}
		}

		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}

		// Logs would interleave with the interactive session
		if cmd == cmd.Root() && !v.IsSet("log-level") {
			cfg.LogLevel = "warn"
		}

		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		if cfgFile != "" {
			logger.Info("using config file", "file", v.ConfigFileUsed())
		}
		return nil
	},
	RunE: runREPL,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	config.RegisterFlags(flags)
	if err := config.Bind(v, flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(askCmd, serveCmd, atlasCmd)
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
