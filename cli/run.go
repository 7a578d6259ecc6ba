package cli

import (
	"errors"
	"fmt"

	"github.com/compozy/chatwoot-nodes/engine/node"
	"github.com/compozy/chatwoot-nodes/pkg/logger"
	"github.com/spf13/cobra"
)

type runOptions struct {
	itemsFile      string
	credential     string
	continueOnFail bool
	format         string
}

// RunCmd executes one node over an items file.
func RunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run <node-id>",
		Short: "Run a node over a list of items",
		Long: `Run a node over the items in a YAML or JSON file ("-" reads stdin).
Results are printed in input order. With --continue-on-fail every item yields a
result and failed items carry an error; otherwise the first failure aborts the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(cmd, args[0], &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.itemsFile, "items", "i", "", "Path to the items file")
	cmd.Flags().StringVarP(&opts.credential, "credential", "c", "", "Credential profile name")
	cmd.Flags().BoolVar(&opts.continueOnFail, "continue-on-fail", false, "Report item failures instead of aborting")
	cmd.Flags().StringVarP(&opts.format, "format", "f", OutputFormatJSON, "Output format (json, yaml)")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

func runNode(cmd *cobra.Command, nodeID string, opts *runOptions) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	registry, err := newRegistry(ctx)
	if err != nil {
		return err
	}
	items, err := readItems(opts.itemsFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	results, err := registry.Run(ctx, nodeID, &node.Execution{
		Items:          items,
		Credential:     opts.credential,
		ContinueOnFail: opts.continueOnFail,
	})
	if err != nil {
		var itemErr *node.ItemError
		if errors.As(err, &itemErr) {
			log.Error("Run aborted", "item_index", itemErr.Index, "error", node.ErrorFields(itemErr.Err))
		}
		return fmt.Errorf("node %s failed: %w", nodeID, err)
	}
	return writeOutput(cmd.OutOrStdout(), opts.format, results)
}
