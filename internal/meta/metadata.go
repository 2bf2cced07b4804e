package meta

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"

	"nixos-type-generator/internal/match"
)

// Struct tag keys.
const (
	TagNixos           = "nixos"
	TagDescription     = "nixos_description"
	TagDefault         = "nixos_default"
	TagDefaultText     = "nixos_default_text"
	TagExample         = "nixos_example"
	TagApply           = "nixos_apply"
	TagVisible         = "nixos_visible"
	TagRelatedPackages = "nixos_related_packages"
	TagJSON            = "json"
)

// Flags of the nixos tag.
const (
	FlagSkip     = "skip"
	FlagOptional = "optional"
	FlagReadOnly = "readOnly"
	FlagInternal = "internal"
	FlagHidden   = "hidden"
	FlagPath     = "path"
)

// VisibleDefault is the visible literal implied when nothing overrides it.
const VisibleDefault = "true"

var knownFlags = []string{FlagSkip, FlagOptional, FlagReadOnly, FlagInternal, FlagHidden, FlagPath}

// literal tags and the FieldMetadata slot they fill
var literalTags = map[string]func(*FieldMetadata) *string{
	TagDescription:     func(m *FieldMetadata) *string { return &m.Description },
	TagDefault:         func(m *FieldMetadata) *string { return &m.Default },
	TagDefaultText:     func(m *FieldMetadata) *string { return &m.DefaultText },
	TagExample:         func(m *FieldMetadata) *string { return &m.Example },
	TagApply:           func(m *FieldMetadata) *string { return &m.Apply },
	TagVisible:         func(m *FieldMetadata) *string { return &m.Visible },
	TagRelatedPackages: func(m *FieldMetadata) *string { return &m.RelatedPackages },
}

// Field is the raw annotation input of one struct field.
type Field struct {
	Name string // Go field name
	Tag  string // raw struct tag
	Doc  string // doc comment
	Path string // location used in errors, e.g. "basic.Settings.Port"
}

// FieldMetadata is the normalized metadata of a field. It is built once by
// Resolve and never modified afterwards.
type FieldMetadata struct {
	Key             string // option key
	Description     string // plain text, escaped on output
	Default         string // verbatim literal; empty means the option is required
	DefaultText     string
	Example         string
	Apply           string
	Visible         string // verbatim literal, VisibleDefault unless overridden
	RelatedPackages string
	Skip            bool
	ReadOnly        bool
	Internal        bool
	Optional        bool
	Path            bool // strings render as types.path
}

// HasDefault reports whether a default literal is set.
func (m FieldMetadata) HasDefault() bool {
	return m.Default != ""
}

// IsVisible reports whether the visible attribute can be omitted.
func (m FieldMetadata) IsVisible() bool {
	return m.Visible == VisibleDefault
}

// Resolve merges the annotations of a field with its container's directives.
//
// Description precedence is nixos_description, then the doc comment when the
// container opted into autodoc, then none. The option key is the nixos tag
// name, then the json tag name, then the lowerCamel Go field name. Every
// misuse found in the tag is reported, aggregated into one error.
func Resolve(field Field, container Container) (FieldMetadata, error) {
	md := FieldMetadata{Visible: VisibleDefault}

	pairs, err := parseTag(field.Tag)
	if err != nil {
		return FieldMetadata{}, &AnnotationError{
			Path:       field.Path,
			Annotation: "`" + field.Tag + "`",
			Message:    err.Error(),
		}
	}

	var (
		merr     *multierror.Error
		nixosKey string
		jsonKey  string
		hidden   bool
	)

	seen := make(map[string]bool, len(pairs))
	misuseFor := func(key, msg, suggestion string) {
		merr = multierror.Append(merr, &AnnotationError{
			Path:       field.Path,
			Annotation: key,
			Message:    msg,
			Suggestion: suggestion,
		})
	}

	for _, p := range pairs {
		if seen[p.Key] {
			misuseFor(p.Key, "duplicate tag key", "")
			continue
		}

		seen[p.Key] = true

		switch {
		case p.Key == TagNixos:
			nixosKey, hidden = resolveNixosTag(p.Value, &md, misuseFor)

		case p.Key == TagJSON:
			name, _, _ := strings.Cut(p.Value, ",")
			if p.Value == "-" {
				md.Skip = true
			} else {
				jsonKey = name
			}

		case literalTags[p.Key] != nil:
			if strings.TrimSpace(p.Value) == "" {
				misuseFor(p.Key, "empty literal", "")
				continue
			}

			*literalTags[p.Key](&md) = p.Value

		case strings.HasPrefix(p.Key, TagNixos):
			misuseFor(p.Key, "unknown tag key", match.Suggest(p.Key, knownTagKeys()))
		}
	}

	if hidden {
		if seen[TagVisible] {
			misuseFor(TagVisible, "conflicts with the hidden flag", "")
		} else {
			md.Visible = "false"
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return FieldMetadata{}, err
	}

	switch {
	case nixosKey != "":
		md.Key = nixosKey
	case jsonKey != "":
		md.Key = jsonKey
	default:
		md.Key = strcase.ToLowerCamel(field.Name)
	}

	if md.Description == "" && container.AutoDoc {
		md.Description = field.Doc
	}

	return md, nil
}

// resolveNixosTag applies `nixos:"key,flag,..."` and returns the renamed key.
func resolveNixosTag(value string, md *FieldMetadata, misuse func(key, msg, suggestion string)) (string, bool) {
	if value == "-" {
		md.Skip = true
		return "", false
	}

	parts := strings.Split(value, ",")
	key := strings.TrimSpace(parts[0])
	hidden := false

	for _, flag := range parts[1:] {
		switch strings.TrimSpace(flag) {
		case FlagSkip:
			md.Skip = true
		case FlagOptional:
			md.Optional = true
		case FlagReadOnly:
			md.ReadOnly = true
		case FlagInternal:
			md.Internal = true
		case FlagHidden:
			hidden = true
		case FlagPath:
			md.Path = true
		case "":
			misuse(TagNixos, "empty flag", "")
		default:
			misuse(TagNixos, fmt.Sprintf("unknown flag %q", flag), match.Suggest(flag, knownFlags))
		}
	}

	return key, hidden
}

func knownTagKeys() []string {
	keys := make([]string, 0, len(literalTags)+1)
	keys = append(keys, TagNixos)

	for k := range literalTags {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
