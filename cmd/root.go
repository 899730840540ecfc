package cmd

import (
	"fmt"

	"singleinclude/pkg/amalgamate"
	"singleinclude/pkg/config"
	"singleinclude/pkg/ignore"
	"singleinclude/pkg/logging"
	"singleinclude/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flagValues holds the root command flags.
type flagValues struct {
	configPath string
	root       string
	entry      string
	output     string
	tree       string
	exclude    []string
	once       bool
	debug      bool
}

var flags flagValues

// RootCmd runs one amalgamation. Without flags it merges the conventional
// HippoMocks/hippomocks.h tree into SingleInclude/hippomocks.h.
var RootCmd = &cobra.Command{
	Use:   "singleinclude",
	Short: "singleinclude merges a header tree into one self-contained file",
	Long: `singleinclude starts from an entry header and inlines every quoted include
that resolves under the source root, recursively and in source order. Includes
that do not resolve are left in place for the final build to satisfy.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAmalgamate,
}

func init() {
	f := RootCmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "HCL config file (default "+config.DefaultFile+" if present)")
	f.StringVarP(&flags.root, "root", "r", "", "source root every quoted include is resolved against")
	f.StringVarP(&flags.entry, "entry", "e", "", "entry file, relative to the source root")
	f.StringVarP(&flags.output, "output", "o", "", "destination of the merged file")
	f.StringVar(&flags.tree, "tree", "", "write the include tree to this file")
	f.StringSliceVarP(&flags.exclude, "exclude", "x", nil, "include targets to keep as directives (gitignore syntax)")
	f.BoolVar(&flags.once, "once", false, "expand each file at most once")
	f.BoolVarP(&flags.debug, "debug", "d", false, "enable development logging")
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func runAmalgamate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Debug {
		if err := logging.Setup(true, version.AppName, version.Get().Version); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	logger := logging.Logger

	patterns, err := ignore.Load(cfg.Root, cfg.Exclude, logger)
	if err != nil {
		logger.Error("Failed to load exclusion patterns", zap.Error(err))
		return fmt.Errorf("failed to load exclusion patterns: %w", err)
	}

	opts := amalgamate.Options{
		Root:    cfg.Root,
		Entry:   cfg.Entry,
		Output:  cfg.Output,
		Tree:    cfg.Tree,
		Exclude: patterns,
		Once:    cfg.Once,
	}
	if err := amalgamate.Run(opts, logger); err != nil {
		return fmt.Errorf("amalgamation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.Output)
	return nil
}

// resolveConfig loads the layered config and applies explicitly set flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flags.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("root") {
		cfg.Root = flags.root
	}
	if changed("entry") {
		cfg.Entry = flags.entry
	}
	if changed("output") {
		cfg.Output = flags.output
	}
	if changed("tree") {
		cfg.Tree = flags.tree
	}
	if changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, flags.exclude...)
	}
	if changed("once") {
		cfg.Once = flags.once
	}
	if changed("debug") {
		cfg.Debug = flags.debug
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
