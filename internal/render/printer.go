package render

import (
	"strings"

	"nixos-type-generator/internal/nix"
)

const indentUnit = "  "

// printer writes indented lines.
type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) line(parts ...string) {
	if len(parts) == 0 {
		p.buf.WriteByte('\n')
		return
	}

	p.buf.WriteString(strings.Repeat(indentUnit, p.indent))

	for _, s := range parts {
		p.buf.WriteString(s)
	}

	p.buf.WriteByte('\n')
}

func (p *printer) String() string {
	return p.buf.String()
}

// options writes `key = lib.mkOption { ... };` blocks separated by blank lines.
func (p *printer) options(opts []nix.Option) {
	for i, opt := range opts {
		if i > 0 {
			p.line()
		}

		p.option(opt)
	}
}

func (p *printer) option(opt nix.Option) {
	p.line(nix.AttrName(opt.Key), " = lib.mkOption {")
	p.indent++

	p.line("type = ", opt.Type.String(), ";")

	if opt.Description != "" {
		p.line("description = ", nix.Quote(opt.Description), ";")
	}

	p.literal("default", opt.Default)
	p.literal("defaultText", opt.DefaultText)
	p.literal("example", opt.Example)
	p.literal("apply", opt.Apply)

	if opt.Internal {
		p.line("internal = true;")
	}

	p.literal("visible", opt.Visible)

	if opt.ReadOnly {
		p.line("readOnly = true;")
	}

	p.literal("relatedPackages", opt.RelatedPackages)

	p.indent--
	p.line("};")
}

func (p *printer) literal(attr, value string) {
	if value != "" {
		p.line(attr, " = ", value, ";")
	}
}

// binding writes `name = <type>;` for one definition.
func (p *printer) binding(def *nix.Definition) {
	if def.Kind == nix.Alias {
		p.line(def.Name, " = ", def.Type.String(), ";")
		return
	}

	if len(def.Options) == 0 {
		p.line(def.Name, " = types.submodule { options = { }; };")
		return
	}

	p.line(def.Name, " = types.submodule {")
	p.indent++
	p.line("options = {")
	p.indent++
	p.options(def.Options)
	p.indent--
	p.line("};")
	p.indent--
	p.line("};")
}

// bindings writes every definition, separated by blank lines.
func (p *printer) bindings(defs []*nix.Definition) {
	for i, def := range defs {
		if i > 0 {
			p.line()
		}

		p.binding(def)
	}
}
