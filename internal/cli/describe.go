package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/config"
	"nixos-type-generator/internal/descriptor"
	"nixos-type-generator/internal/export"
)

type describeArgs struct {
	packages []string
}

// NewDescribeCmd returns the describe command.
func NewDescribeCmd(root *RootArgs) *cobra.Command {
	args := &describeArgs{}

	cmd := &cobra.Command{
		Use:   "describe [type...]",
		Short: "Dump the descriptors reachable from types as YAML",
		Long: `Print every record and enumeration reachable from the given types, with
their resolved field metadata and the structural findings visible before
compilation. Without arguments the configured roots are described; without
--package the configured packages are loaded.`,
		RunE: func(cc *cobra.Command, refs []string) error {
			cfg := &config.Config{Packages: args.packages}

			if len(cfg.Packages) == 0 || len(refs) == 0 {
				loaded, err := config.Load(root.GetConfigPath())
				if err != nil {
					return err
				}

				if err := applyLogConfig(cc, root, loaded.Log); err != nil {
					return err
				}

				if len(cfg.Packages) == 0 {
					cfg = loaded
				}

				if len(refs) == 0 {
					for _, r := range loaded.Roots {
						refs = append(refs, r.Type)
					}
				}
			}

			graph, err := loadGraph(cfg)
			if err != nil {
				return err
			}

			ids := make([]analyze.TypeID, 0, len(refs))

			for _, ref := range refs {
				info, err := graph.FindType(ref)
				if err != nil {
					return err
				}

				ids = append(ids, info.ID)
			}

			out, exportErr := export.ExportYAML(descriptor.NewBuilder(graph), ids)
			if out != nil {
				if _, err := fmt.Fprint(cc.OutOrStdout(), string(out)); err != nil {
					return err
				}
			}

			return exportErr
		},
	}

	cmd.Flags().StringSliceVarP(&args.packages, "package", "p", nil, "Package patterns to load instead of the configured ones")

	return cmd
}
