package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MehtiSini/HappyTools-sub000/pkg/config"
)

// Version is set at build time with -ldflags "-X ...commands.Version=v1.2.3".
var Version = "dev"

type globals struct {
	configPath string
	debug      bool
	restoreLog func()
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the happytools command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "happytools",
		Short:         "Persian locale, hashing and web API helpers",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			restore, err := config.InstallLogger(&config.Config{Debug: g.debug})
			if err != nil {
				return err
			}
			g.restoreLog = restore
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
			if g.restoreLog != nil {
				g.restoreLog()
			}
		},
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (.yaml, .yml or .json)")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		jalaliCmd(),
		shetabCmd(),
		nationalCodeCmd(),
		hashCmd(),
		getCmd(g),
		heartbeatCmd(g),
		versionCmd(),
	)
	return root
}

// loadConfig reads the --config file and environment. The --debug flag
// forces debug logging; otherwise the file's debug setting decides, and the
// logger installed before the config was known is rebuilt when it differs.
func (g *globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.debug {
		cfg.Debug = true
	}
	if cfg.Debug != g.debug {
		if _, err := config.InstallLogger(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "happytools %s\n", Version)
		},
	}
}
