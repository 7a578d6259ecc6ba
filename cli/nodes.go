package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/spf13/cobra"
)

type nodeSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Credentials []string        `json:"credentials,omitempty"`
	Properties  []node.Property `json:"properties,omitempty"`
}

// NodesCmd lists the registered nodes.
func NodesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List available nodes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := newRegistry(cmd.Context())
			if err != nil {
				return err
			}
			defs := registry.List()
			if format == "table" {
				return writeNodesTable(cmd, defs)
			}
			summaries := make([]nodeSummary, 0, len(defs))
			for _, def := range defs {
				summaries = append(summaries, nodeSummary{
					ID:          def.ID,
					Name:        def.Name,
					Description: def.Description,
					Credentials: def.Credentials,
					Properties:  def.Properties,
				})
			}
			return writeOutput(cmd.OutOrStdout(), format, summaries)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json, yaml)")
	return cmd
}

func writeNodesTable(cmd *cobra.Command, defs []node.Definition) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREDENTIALS\tDESCRIPTION")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.ID, def.Name, strings.Join(def.Credentials, ","), def.Description)
	}
	return w.Flush()
}
