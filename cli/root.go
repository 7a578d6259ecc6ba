package cli

import (
	"context"
	"fmt"

	"github.com/compozy/chatwoot-nodes/pkg/config"
	"github.com/compozy/chatwoot-nodes/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	defaultConfigFile = "chatwoot-nodes.yaml"
	defaultEnvFile    = ".env"
)

// RootCmd builds the command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatwoot-nodes",
		Short:         "Run Chatwoot workflow nodes from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupContext(cmd)
		},
	}
	addGlobalFlags(root)
	root.AddCommand(
		NodesCmd(),
		RunCmd(),
		ConfigCmd(),
	)
	return root
}

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", defaultConfigFile, "Path to configuration file")
	flags.String("env-file", defaultEnvFile, "Path to environment file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")
	flags.String("chatwoot-url", "", "Base URL of the Chatwoot instance")
	flags.Duration("http-timeout", 0, "Timeout for outbound HTTP requests")
	flags.Int("http-max-redirects", 0, "Maximum redirects followed when downloading")
	flags.Int("http-retry-count", 0, "Retries for failed HTTP requests")
}

// setupContext loads the env file and configuration, then stores the config
// manager and logger in the command context.
func setupContext(cmd *cobra.Command) error {
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx, buildSources(cmd, configFile)...)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, cfg.Runtime.LogSource, cmd.ErrOrStderr())
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithManager(ctx, manager)
	cmd.SetContext(ctx)
	log.Debug("Configuration loaded", "config_file", configFile)
	return nil
}

func buildSources(cmd *cobra.Command, configFile string) []config.Source {
	sources := []config.Source{
		config.NewDefaultProvider(),
		config.NewEnvProvider(),
	}
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	cliFlags := make(map[string]any)
	extractCLIFlags(cmd, cliFlags)
	if len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}
	return sources
}
