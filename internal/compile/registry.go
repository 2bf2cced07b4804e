package compile

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"

	"nixos-type-generator/internal/analyze"
	"nixos-type-generator/internal/common"
	"nixos-type-generator/internal/nix"
)

// State is the registration state of a type.
type State int

const (
	Unseen State = iota
	InProgress
	Complete
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case InProgress:
		return "in progress"
	case Complete:
		return "complete"
	default:
		return common.UnknownStr
	}
}

type entry struct {
	state State
	name  string
	def   *nix.Definition
}

// BuildFunc builds the definition bound to name.
type BuildFunc func(name string) (*nix.Definition, error)

// Registry guarantees each distinct type is defined exactly once and
// allocates unique binding names.
type Registry struct {
	entries map[analyze.TypeID]*entry
	names   map[string]analyze.TypeID
	order   []analyze.TypeID
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[analyze.TypeID]*entry),
		names:   make(map[string]analyze.TypeID),
	}
}

// State returns the registration state of id.
func (r *Registry) State(id analyze.TypeID) State {
	if e, ok := r.entries[id]; ok {
		return e.state
	}

	return Unseen
}

// Reference returns the reference to a registered id.
func (r *Registry) Reference(id analyze.TypeID) (nix.Type, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nix.Type{}, false
	}

	return nix.Ref(id, e.name), true
}

// RegisterOrGet returns a reference to the definition of id, calling build
// only on the first request. The type is InProgress while build runs, so a
// recursive request for id returns the reference without re-entering build.
// preferred is the binding name to use when it is still free.
func (r *Registry) RegisterOrGet(id analyze.TypeID, preferred string, build BuildFunc) (nix.Type, error) {
	if ref, ok := r.Reference(id); ok {
		return ref, nil
	}

	e := &entry{
		state: InProgress,
		name:  r.allocate(id, preferred),
	}
	r.entries[id] = e
	r.order = append(r.order, id)

	def, err := build(e.name)
	if err != nil {
		return nix.Type{}, err
	}

	def.ID = id
	def.Name = e.name
	def.Refs = def.CollectRefs()

	e.def = def
	e.state = Complete

	return nix.Ref(id, e.name), nil
}

// Definitions returns the completed definitions in first-registration order.
func (r *Registry) Definitions() []*nix.Definition {
	defs := make([]*nix.Definition, 0, len(r.order))

	for _, id := range r.order {
		if e := r.entries[id]; e.state == Complete {
			defs = append(defs, e.def)
		}
	}

	return defs
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.order)
}

// allocate reserves a binding name for id: preferred when free, then the
// package-qualified form, then a numeric suffix.
func (r *Registry) allocate(id analyze.TypeID, preferred string) string {
	candidates := []string{
		preferred,
		strcase.ToLowerCamel(common.PkgAlias(id.PkgPath) + "_" + preferred),
	}

	for _, c := range candidates {
		if _, taken := r.names[c]; !taken && nix.IsIdentifier(c) {
			r.names[c] = id
			return c
		}
	}

	for n := 2; ; n++ {
		c := preferred + strconv.Itoa(n)
		if _, taken := r.names[c]; !taken {
			r.names[c] = id
			return c
		}
	}
}

// BindingName derives the default binding name of a Go type:
// lowerCamel type name plus "Type", e.g. "DatabaseConfig" -> "databaseConfigType".
// Type arguments of instantiations become part of the name.
func BindingName(goName string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return '_'
	}, goName)

	base := strcase.ToLowerCamel(sanitized)
	if base == "" || !nix.IsIdentifier(base) {
		base = "t" + strcase.ToCamel(sanitized)
	}

	return base + "Type"
}
