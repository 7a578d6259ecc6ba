package cli

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/compozy/chatwoot-nodes/pkg/config"
	"github.com/spf13/cobra"
)

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection and validation",
	}
	cmd.AddCommand(
		configShowCmd(),
		configValidateCmd(),
		configEnvCmd(),
	)
	return cmd
}

func configShowCmd() *cobra.Command {
	var (
		format      string
		showSources bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values and their sources",
		Long: `Display the current configuration with optional source information.
This command shows which source (CLI, environment, YAML, or default) provided each value.
Secrets are always redacted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := config.ManagerFromContext(cmd.Context())
			cfg := manager.Get()
			if cfg == nil {
				return fmt.Errorf("configuration is not loaded")
			}
			sources := collectSources(manager.Service, cfg)
			if format == "table" {
				return outputTable(cmd.OutOrStdout(), cfg, sources, showSources)
			}
			output := map[string]any{"config": flattenConfig(cfg)}
			if showSources {
				output["sources"] = sources
			}
			return writeOutput(cmd.OutOrStdout(), format, output)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (json, yaml, table)")
	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show configuration sources")
	return cmd
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the loaded configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := config.ManagerFromContext(cmd.Context())
			if err := manager.Service.Validate(manager.Get()); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}

func configEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List environment variables mapped to configuration keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return displayEnvMapping(cmd.OutOrStdout())
		},
	}
}

// collectSources records the source of every leaf configuration key.
func collectSources(service config.Service, cfg *config.Config) map[string]config.SourceType {
	sources := make(map[string]config.SourceType)
	for key := range flattenConfig(cfg) {
		sources[key] = service.GetSource(key)
	}
	return sources
}

func outputTable(w io.Writer, cfg *config.Config, sources map[string]config.SourceType, showSources bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	flatMap := flattenConfig(cfg)
	keys := make([]string, 0, len(flatMap))
	for k := range flatMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if showSources {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
	}
	for _, key := range keys {
		if showSources {
			source := sources[key]
			if source == "" {
				source = config.SourceDefault
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", key, flatMap[key], source)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, flatMap[key])
	}
	return tw.Flush()
}

// flattenConfig renders leaf values keyed by their koanf path.
func flattenConfig(cfg *config.Config) map[string]string {
	result := make(map[string]string)
	flattenValue("", reflect.ValueOf(cfg).Elem(), result)
	return result
}

func flattenValue(prefix string, val reflect.Value, result map[string]string) {
	switch {
	case val.Kind() == reflect.Struct && val.Type() != reflect.TypeOf(time.Time{}):
		for i := 0; i < val.NumField(); i++ {
			field := val.Type().Field(i)
			tag := field.Tag.Get("koanf")
			if tag == "" || tag == "-" {
				continue
			}
			flattenValue(buildFieldKey(prefix, tag), val.Field(i), result)
		}
	case val.Kind() == reflect.Map:
		for _, key := range val.MapKeys() {
			flattenValue(buildFieldKey(prefix, fmt.Sprint(key.Interface())), val.MapIndex(key), result)
		}
	default:
		result[prefix] = fmt.Sprint(val.Interface())
	}
}

func buildFieldKey(prefix, tag string) string {
	if prefix == "" {
		return tag
	}
	return prefix + "." + tag
}

// displayEnvMapping shows environment variable mappings
func displayEnvMapping(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENVIRONMENT VARIABLE\tCONFIG PATH\tCURRENT VALUE")
	for _, mapping := range config.GenerateEnvMappings() {
		value := os.Getenv(mapping.EnvVar)
		switch {
		case value == "":
			value = "(not set)"
		case config.IsSensitiveConfigPath(mapping.ConfigPath):
			value = "[REDACTED]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", mapping.EnvVar, mapping.ConfigPath, value)
	}
	return tw.Flush()
}
