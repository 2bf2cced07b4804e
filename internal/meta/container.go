package meta

import (
	"strings"

	"nixos-type-generator/internal/match"
	"nixos-type-generator/internal/nix"
)

// Container directives.
const (
	DirectiveAutoDoc = "autodoc"
	DirectiveName    = "name"
)

var knownDirectives = []string{DirectiveAutoDoc, DirectiveName}

// Container holds the annotations of a record or enum declaration.
type Container struct {
	// AutoDoc uses field doc comments as descriptions when no explicit one is set.
	AutoDoc bool
	// Name overrides the generated binding name.
	Name string
}

// reservedNames are bound by lib or the module arguments and referenced by
// the rendered bindings.
var reservedNames = map[string]bool{
	"lib":    true,
	"types":  true,
	"config": true,
	"pkgs":   true,
}

// ParseDirectives parses "nixos:..." directive lines of a type declaration.
// path names the declaration in errors.
func ParseDirectives(path string, directives []string) (Container, error) {
	var c Container

	for _, line := range directives {
		body, ok := strings.CutPrefix(line, "nixos:")
		if !ok {
			continue
		}

		name, arg, _ := strings.Cut(body, " ")
		arg = strings.TrimSpace(arg)

		switch name {
		case DirectiveAutoDoc:
			if arg != "" {
				return Container{}, &AnnotationError{
					Path:       path,
					Annotation: "//" + line,
					Message:    "autodoc takes no argument",
				}
			}

			c.AutoDoc = true

		case DirectiveName:
			if !nix.IsIdentifier(arg) {
				return Container{}, &AnnotationError{
					Path:       path,
					Annotation: "//" + line,
					Message:    "binding name must be a Nix identifier",
				}
			}

			if reservedNames[arg] {
				return Container{}, &AnnotationError{
					Path:       path,
					Annotation: "//" + line,
					Message:    "binding name " + arg + " shadows a name the generated code refers to",
				}
			}

			c.Name = arg

		default:
			return Container{}, &AnnotationError{
				Path:       path,
				Annotation: "//" + line,
				Message:    "unknown directive",
				Suggestion: match.Suggest(name, knownDirectives),
			}
		}
	}

	return c, nil
}
