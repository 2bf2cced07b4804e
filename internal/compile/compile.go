package compile

import (
	"fmt"
	"log/slog"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/descriptor"
	"nixos-type-generator/internal/diagnostic"
	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/nix"
	"nixos-type-generator/internal/order"
	"nixos-type-generator/internal/render"
)

// Options configures a compile call.
type Options struct {
	// Policy orders the definitions. The zero value is order.Topological.
	Policy order.Policy
}

// Result is the outcome of one top-level compile call. Every textual output
// is derived from the same definitions.
type Result struct {
	Root        analyze.TypeID
	RootType    nix.Type
	Definitions []*nix.Definition // emission order
	Diagnostics diagnostic.Diagnostics
}

// Compile translates root and everything it transitively references.
func Compile(graph *analyze.TypeGraph, root analyze.TypeID, opts Options) (*Result, error) {
	return CompileWith(descriptor.NewBuilder(graph), root, opts)
}

// CompileWith is Compile with a custom Describer.
//
// Structural limitations are reported in Result.Diagnostics alongside the
// output. Annotation misuse fails the call without partial output.
func CompileWith(describer Describer, root analyze.TypeID, opts Options) (*Result, error) {
	ctx := NewContext(describer)

	desc, err := describer.Describe(root)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errs.ErrCompile, root, err)
	}

	rootType, err := ctx.MapType(desc, analyze.NewTypePath(root.Short()))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errs.ErrCompile, root, err)
	}

	ordered, cycles := order.Order(ctx.registry.Definitions(), opts.Policy)

	for _, cycle := range cycles {
		names := make([]string, len(cycle))
		for i, d := range cycle {
			names[i] = d.Name
		}

		ctx.diags.AddWarning(diagnostic.CodeOrderingCycle,
			"definitions reference each other and cannot be strictly ordered: "+cyclePath(names),
			cycle[0].ID.Short(), "")
	}

	slog.Debug("compiled type",
		"root", root.String(),
		"definitions", len(ordered),
		"policy", opts.Policy.String(),
		"diagnostics", ctx.diags.Len())

	return &Result{
		Root:        root,
		RootType:    rootType,
		Definitions: ordered,
		Diagnostics: ctx.diags,
	}, nil
}

// RootDefinition returns the definition of the root type.
func (r *Result) RootDefinition() *nix.Definition {
	return r.Definition(r.Root)
}

// Definition returns the definition of id, or nil.
func (r *Result) Definition(id analyze.TypeID) *nix.Definition {
	for _, d := range r.Definitions {
		if d.ID == id {
			return d
		}
	}

	return nil
}

// TypeName returns the binding name of the root type.
func (r *Result) TypeName() string {
	return r.RootType.Name
}

// TypeExpr returns the type expression referencing the root type.
func (r *Result) TypeExpr() string {
	return r.RootType.String()
}

// OptionsOnly renders the root record's options without any binding
// preamble. It is empty for enumeration roots.
func (r *Result) OptionsOnly() string {
	return render.Options(r.RootDefinition().Options)
}

// TypeDefinition renders the root binding alone, without its dependencies.
func (r *Result) TypeDefinition() string {
	return render.TypeDefinition(r.RootDefinition())
}

// FullDefinition renders every definition in emission order followed by the
// root type.
func (r *Result) FullDefinition() string {
	return render.FullDefinition(r.Definitions, r.RootType)
}

// Module renders a NixOS module declaring the root under opts.Path.
func (r *Result) Module(opts render.ModuleOptions) (string, error) {
	return render.Module(r.Definitions, r.RootDefinition(), opts)
}
