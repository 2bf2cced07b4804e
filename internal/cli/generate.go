package cli

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/compile"
	"nixos-type-generator/internal/config"
	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/order"
	"nixos-type-generator/internal/render"
)

type generateArgs struct {
	ordering string
	strict   bool
}

// NewGenerateCmd returns the generate command.
func NewGenerateCmd(root *RootArgs) *cobra.Command {
	args := &generateArgs{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile the configured roots into NixOS definitions",
		Long: `Load the configured packages, compile every configured root type and
write the rendered output. Structural limitations are reported as
diagnostics; annotation misuse fails the root it occurs in.`,
		Args: cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.GetConfigPath())
			if err != nil {
				return err
			}

			if err := applyLogConfig(cc, root, cfg.Log); err != nil {
				return err
			}

			if args.ordering != "" {
				cfg.Ordering = args.ordering
			}

			return runGenerate(cfg, args.strict, cc.OutOrStdout(), cc.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&args.ordering, "ordering", "", "Override the ordering policy (topological, insertion)")
	cmd.Flags().BoolVar(&args.strict, "strict", false, "Fail when any root reports a warning")

	return cmd
}

type rootOutput struct {
	root   config.Root
	result *compile.Result
	text   string
}

func runGenerate(cfg *config.Config, strict bool, stdout, stderr io.Writer) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	graph, err := loadGraph(cfg)
	if err != nil {
		return err
	}

	outputs := make([]rootOutput, len(cfg.Roots))
	failures := make([]error, len(cfg.Roots))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, root := range cfg.Roots {
		g.Go(func() error {
			out, err := compileRoot(graph, root, policy)
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", root.Type, err)
				return nil
			}

			outputs[i] = out

			return nil
		})
	}

	_ = g.Wait()

	var merr *multierror.Error

	for i, out := range outputs {
		if failures[i] != nil {
			if diags := compile.AnnotationDiagnostics(failures[i]); diags.HasErrors() {
				writeDiagnostics(stderr, cfg.Roots[i].Type, diags)
			}

			merr = multierror.Append(merr, failures[i])

			continue
		}

		writeDiagnostics(stderr, out.root.Type, out.result.Diagnostics)

		if strict && out.result.Diagnostics.Len() > 0 {
			merr = multierror.Append(merr, fmt.Errorf("%s: %d diagnostics in strict mode", out.root.Type, out.result.Diagnostics.Len()))
			continue
		}

		if err := emit(out, stdout); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	return merr.ErrorOrNil()
}

func loadGraph(cfg *config.Config) (*analyze.TypeGraph, error) {
	analyzer := analyze.NewAnalyzer(analyze.WithDir(cfg.Dir), analyze.WithBuildFlags(cfg.BuildFlags...))

	graph, err := analyzer.LoadPackages(cfg.Packages...)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded packages", "packages", len(graph.Packages), "types", len(graph.Types))

	return graph, nil
}

func compileRoot(graph *analyze.TypeGraph, root config.Root, policy order.Policy) (rootOutput, error) {
	info, err := graph.FindType(root.Type)
	if err != nil {
		return rootOutput{}, err
	}

	res, err := compile.Compile(graph, info.ID, compile.Options{Policy: policy})
	if err != nil {
		return rootOutput{}, err
	}

	text, err := renderRoot(res, root)
	if err != nil {
		return rootOutput{}, err
	}

	return rootOutput{root: root, result: res, text: text}, nil
}

func renderRoot(res *compile.Result, root config.Root) (string, error) {
	switch root.Format {
	case config.FormatModule, "":
		return res.Module(render.ModuleOptions{
			Path:    root.OptionPath,
			Imports: root.Imports,
			Config:  root.Config,
		})
	case config.FormatFull:
		return res.FullDefinition(), nil
	case config.FormatOptions:
		return res.OptionsOnly(), nil
	case config.FormatType:
		return res.TypeDefinition(), nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", errs.ErrInvalidArguments, root.Format)
	}
}

func emit(out rootOutput, stdout io.Writer) error {
	if out.root.Output == "" {
		_, err := io.WriteString(stdout, out.text)
		return err
	}

	if err := render.WriteFile(out.root.Output, out.text); err != nil {
		return err
	}

	slog.Info("wrote file", "root", out.root.Type, "path", out.root.Output)

	return nil
}
