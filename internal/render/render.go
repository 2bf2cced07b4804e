package render

import (
	"bytes"
	"fmt"
	"text/template"

	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/nix"
)

// Options renders an options block without any binding preamble, for
// embedding into a module managed elsewhere.
func Options(opts []nix.Option) string {
	var p printer
	p.options(opts)

	return p.String()
}

// TypeDefinition renders a single self-contained binding of def, without the
// definitions it depends on.
func TypeDefinition(def *nix.Definition) string {
	var p printer
	p.line("# NixOS type definition for ", def.ID.Name)
	p.binding(def)

	return p.String()
}

// FullDefinition renders `let <bindings> in <root>` with defs in the given
// order.
func FullDefinition(defs []*nix.Definition, root nix.Type) string {
	var p printer

	p.line("let")
	p.indent++
	p.bindings(defs)
	p.indent--
	p.line("in")
	p.line(root.String())

	return p.String()
}

// ModuleOptions configures a rendered module.
type ModuleOptions struct {
	Path    string   // option path declaring the root, e.g. services.app
	Imports []string // Nix expressions listed in imports
	Config  []string // config lines, applied when <Path>.enable is set
}

type moduleData struct {
	Source   string
	Args     string
	Bindings string
	Imports  string
	Options  string
	Config   string
}

var moduleTemplate = template.Must(template.New("module").Parse(`# Generated by nixos-type-generator from {{.Source}}. DO NOT EDIT.
{ {{.Args}} }:

with lib;

let
{{.Bindings}}in
{
{{.Imports}}{{.Options}}{{.Config}}}
`))

// Module renders a NixOS module declaring root under opts.Path. Every
// definition is bound in the let preamble; a record root contributes its
// options directly, any other root is declared as a single option of its
// type. Config lines are guarded by mkIf on the enable option of the path.
func Module(defs []*nix.Definition, root *nix.Definition, opts ModuleOptions) (string, error) {
	path := nix.AttrPath(opts.Path)
	if path == "" {
		return "", fmt.Errorf("%w: empty option path", errs.ErrInvalidArguments)
	}

	var bindings printer
	bindings.indent = 1
	bindings.bindings(defs)

	var imports printer
	imports.indent = 1

	if len(opts.Imports) > 0 {
		imports.line("imports = [")
		imports.indent++

		for _, imp := range opts.Imports {
			imports.line(imp)
		}

		imports.indent--
		imports.line("];")
		imports.line()
	}

	var options printer
	options.indent = 1

	if root.Kind == nix.Submodule {
		options.line("options.", path, " = {")
		options.indent++
		options.options(root.Options)
		options.indent--
		options.line("};")
	} else {
		options.line("options.", path, " = lib.mkOption {")
		options.indent++
		options.line("type = ", root.Name, ";")
		options.indent--
		options.line("};")
	}

	args := "lib, ..."

	var config printer
	config.indent = 1

	if len(opts.Config) > 0 {
		args = "config, lib, pkgs, ..."

		config.line()
		config.line("config = mkIf config.", path, ".enable {")
		config.indent++

		for _, l := range opts.Config {
			config.line(l)
		}

		config.indent--
		config.line("};")
	}

	var buf bytes.Buffer

	err := moduleTemplate.Execute(&buf, moduleData{
		Source:   root.ID.String(),
		Args:     args,
		Bindings: bindings.String(),
		Imports:  imports.String(),
		Options:  options.String(),
		Config:   config.String(),
	})
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}
