package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nixos-type-generator/internal/config"
)

// NewConfigSchemaCmd returns the config-schema command.
func NewConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			schema, err := config.Schema()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cc.OutOrStdout(), string(schema))

			return err
		},
	}
}
