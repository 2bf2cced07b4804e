package export

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/descriptor"
	"nixos-type-generator/internal/diagnostic"
	"nixos-type-generator/internal/errs"
	"nixos-type-generator/internal/meta"
)

// Version of the document layout.
const Version = "1"

// Describer reflects a named record or enumeration into a descriptor.
type Describer interface {
	Describe(id analyze.TypeID) (descriptor.Descriptor, error)
}

// Document is the YAML form of a descriptor graph.
type Document struct {
	Version     string            `yaml:"version"`
	Roots       []string          `yaml:"roots"`
	Types       []Type            `yaml:"types"`
	Diagnostics []DiagnosticEntry `yaml:"diagnostics,omitempty"`
}

// Type is one record or enumeration.
type Type struct {
	ID       string    `yaml:"id"`
	Kind     string    `yaml:"kind"`
	Doc      string    `yaml:"doc,omitempty"`
	Binding  string    `yaml:"binding,omitempty"`
	AutoDoc  bool      `yaml:"autodoc,omitempty"`
	Text     bool      `yaml:"text,omitempty"`
	Fields   []Field   `yaml:"fields,omitempty"`
	Variants []Variant `yaml:"variants,omitempty"`
}

// Field is one surviving record field.
type Field struct {
	Name        string   `yaml:"name"`
	Key         string   `yaml:"key"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description,omitempty"`
	Default     string   `yaml:"default,omitempty"`
	DefaultText string   `yaml:"defaultText,omitempty"`
	Example     string   `yaml:"example,omitempty"`
	Apply       string   `yaml:"apply,omitempty"`
	Visible     string   `yaml:"visible,omitempty"`
	Related     string   `yaml:"relatedPackages,omitempty"`
	Flags       []string `yaml:"flags,omitempty"`
}

// Variant is one enumeration variant.
type Variant struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
	Data  string `yaml:"data,omitempty"`
}

// DiagnosticEntry is a finding attached to a type or field.
type DiagnosticEntry struct {
	Severity string `yaml:"severity"`
	Code     string `yaml:"code"`
	Message  string `yaml:"message"`
	Type     string `yaml:"type,omitempty"`
	Field    string `yaml:"field,omitempty"`
}

// Export describes every type reachable from roots. Types whose annotations
// are misused are left out and reported in the returned error, which
// aggregates one error per failing type.
func Export(d Describer, roots []analyze.TypeID) (*Document, error) {
	doc := &Document{
		Version: Version,
		Roots:   make([]string, 0, len(roots)),
		Types:   []Type{},
	}

	var (
		merr  *multierror.Error
		diags diagnostic.Diagnostics
	)

	visited := make(map[analyze.TypeID]bool)
	queue := append([]analyze.TypeID(nil), roots...)

	for _, root := range roots {
		doc.Roots = append(doc.Roots, root.String())
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}

		visited[id] = true

		desc, err := d.Describe(id)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", id, err))
			continue
		}

		doc.Types = append(doc.Types, exportType(desc, &diags))
		queue = append(queue, references(desc)...)
	}

	for _, diag := range diags.All() {
		doc.Diagnostics = append(doc.Diagnostics, DiagnosticEntry{
			Severity: diag.Severity.String(),
			Code:     diag.Code,
			Message:  diag.Message,
			Type:     diag.TypeName,
			Field:    diag.FieldPath,
		})
	}

	return doc, merr.ErrorOrNil()
}

// ExportYAML is Export followed by YAML encoding. The document is returned
// even when some types failed to describe.
func ExportYAML(d Describer, roots []analyze.TypeID) ([]byte, error) {
	doc, exportErr := Export(d, roots)

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrYAMLMarshal, err)
	}

	return out, exportErr
}

func exportType(desc descriptor.Descriptor, diags *diagnostic.Diagnostics) Type {
	t := Type{
		ID:      desc.ID.String(),
		Kind:    strings.ToLower(desc.Kind.String()),
		Doc:     desc.Doc,
		Binding: desc.Container.Name,
		AutoDoc: desc.Container.AutoDoc,
	}

	if desc.Kind == descriptor.KindEnum && desc.Code != "" {
		t.Text = true
		diags.AddWarning(desc.Code, desc.Reason, desc.ID.Short(), "")
	}

	for _, f := range desc.Fields {
		collectOpaque(f.Type, desc.ID.Short(), f.Path, diags)
		t.Fields = append(t.Fields, exportField(f))
	}

	for _, v := range desc.Variants {
		ev := Variant{Name: v.Name, Value: v.Value}
		if !v.IsUnit() {
			ev.Data = Format(*v.Data)
			diags.AddWarning(diagnostic.CodeDataVariant, "variant "+v.Name+" carries data", desc.ID.Short(), "")
		}

		t.Variants = append(t.Variants, ev)
	}

	return t
}

func exportField(f descriptor.Field) Field {
	md := f.Meta

	ef := Field{
		Name:        f.Name,
		Key:         md.Key,
		Type:        Format(f.Type),
		Description: md.Description,
		Default:     md.Default,
		DefaultText: md.DefaultText,
		Example:     md.Example,
		Apply:       md.Apply,
		Related:     md.RelatedPackages,
	}

	if !md.IsVisible() {
		ef.Visible = md.Visible
	}

	for _, flag := range []struct {
		set  bool
		name string
	}{
		{md.Optional, meta.FlagOptional},
		{md.ReadOnly, meta.FlagReadOnly},
		{md.Internal, meta.FlagInternal},
		{md.Path, meta.FlagPath},
	} {
		if flag.set {
			ef.Flags = append(ef.Flags, flag.name)
		}
	}

	return ef
}

// collectOpaque reports the opaque parts of a field type.
func collectOpaque(d descriptor.Descriptor, typeName, path string, diags *diagnostic.Diagnostics) {
	switch d.Kind {
	case descriptor.KindOpaque:
		diags.AddWarning(d.Code, d.Reason, typeName, path)
	case descriptor.KindOptional:
		collectOpaque(*d.Elem, typeName, path, diags)
	case descriptor.KindSequence:
		collectOpaque(*d.Elem, typeName, path+"[]", diags)
	case descriptor.KindMapping:
		if !d.TextKey {
			diags.AddWarning(diagnostic.CodeNonTextKey, "map key is not text", typeName, path)
		}

		collectOpaque(*d.Elem, typeName, path+"{}", diags)
	}
}

// references lists the named types a descriptor refers to, in field order.
func references(desc descriptor.Descriptor) []analyze.TypeID {
	var ids []analyze.TypeID

	var walk func(d descriptor.Descriptor)
	walk = func(d descriptor.Descriptor) {
		switch d.Kind {
		case descriptor.KindReference:
			ids = append(ids, d.ID)
		case descriptor.KindOptional, descriptor.KindSequence:
			walk(*d.Elem)
		case descriptor.KindMapping:
			walk(*d.Key)
			walk(*d.Elem)
		}
	}

	for _, f := range desc.Fields {
		walk(f.Type)
	}

	for _, v := range desc.Variants {
		if v.Data != nil {
			walk(*v.Data)
		}
	}

	return ids
}

// Format renders a descriptor compactly, e.g. "optional<sequence<string>>"
// or "ref<basic.Server>".
func Format(d descriptor.Descriptor) string {
	switch d.Kind {
	case descriptor.KindPrimitive:
		return d.Primitive.String()
	case descriptor.KindOptional:
		return "optional<" + Format(*d.Elem) + ">"
	case descriptor.KindSequence:
		return "sequence<" + Format(*d.Elem) + ">"
	case descriptor.KindMapping:
		return "mapping<" + Format(*d.Key) + ", " + Format(*d.Elem) + ">"
	case descriptor.KindReference:
		return "ref<" + d.ID.Short() + ">"
	case descriptor.KindOpaque:
		return "opaque<" + d.Code + ">"
	case descriptor.KindRecord, descriptor.KindEnum:
		return strings.ToLower(d.Kind.String()) + "<" + d.ID.Short() + ">"
	default:
		return d.Kind.String()
	}
}
