package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Errorf("failed to set up logger: %w", err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "formbuilder-tools",
		Short: "Offline helpers for form definitions",
		Long: `Offline helpers for form definitions.

Form files are JSON or YAML documents with a title and a list of fields,
in the same shape the server returns for a session schema.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newSlotsCmd(),
		newJSONSchemaCmd(),
		newValidateCmd(),
		newRenderCmd(),
	)
	return root
}
