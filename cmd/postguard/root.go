package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techlog/postguard/internal/config"
	logpkg "github.com/techlog/postguard/internal/logger"
	"github.com/techlog/postguard/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	env        string
	indexPath  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "postguard",
		Short:         "Duplicate gate for blog posts",
		Long:          "postguard keeps the content index of a technical blog and checks new posts for duplicates before they are published.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "path to config file (default: config/<env>.yaml or $XDG_CONFIG_HOME/postguard/config.yaml)")
	pf.StringVar(&g.env, "env", config.GetEnv(), "environment name (local, dev, prod)")
	pf.StringVar(&g.indexPath, "index", "", "path to a content index file (forces the file driver)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newCheckCmd(g),
		newAddCmd(g),
		newListCmd(g),
		newStatsCmd(g),
		newServeCmd(g),
		newVersionCmd(),
	)
	return root
}

// load resolves the configuration and applies flag overrides.
func (g *globalFlags) load() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.Load(g.env)
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if g.indexPath != "" {
		cfg.Index.Driver = config.DriverFile
		cfg.Index.Path = g.indexPath
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	return cfg, nil
}

// cliLogger logs to stderr so stdout only carries command output.
func (g *globalFlags) cliLogger(cfg *config.Config) (*zap.Logger, error) {
	level := g.logLevel
	if level == "" && cfg.Logging.Level == "debug" {
		level = "debug"
	}
	l, err := logpkg.NewLogger("cli", level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return l, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "postguard %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

// readInput reads a JSON document from path, or from in when path is "" or "-".
func readInput(in io.Reader, path string, v any) error {
	r := in
	if path != "" && path != "-" {
		f, err := os.Open(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
