// Command graphdump decodes graphwire streams with a YAML schema and prints
// the resulting object graph.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "graphdump",
		Short: "Inspect graphwire object graph streams",
		Long: `graphdump decodes tag-length-value object graph streams, including
plain protobuf messages, using message definitions from a YAML schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("schema", "s", "", "YAML schema file")
	_ = root.MarkPersistentFlagRequired("schema")

	root.AddCommand(newDecodeCmd(), newSchemaCmd())
	return root
}
