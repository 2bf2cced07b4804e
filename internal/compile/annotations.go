package compile

import (
	"github.com/hashicorp/go-multierror"

	"nixos-type-generator/internal/diagnostic"
	"nixos-type-generator/internal/meta"
)

// AnnotationDiagnostics lists every annotation error wrapped in err as an
// error diagnostic, carrying the suggested spelling when there is one.
func AnnotationDiagnostics(err error) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	collectAnnotations(err, &diags)

	return diags
}

func collectAnnotations(err error, diags *diagnostic.Diagnostics) {
	switch e := err.(type) {
	case nil:
		return

	case *meta.AnnotationError:
		var suggestions []string
		if e.Suggestion != "" {
			suggestions = append(suggestions, e.Suggestion)
		}

		diags.AddError(diagnostic.CodeAnnotation, e.Annotation+": "+e.Message, "", e.Path, suggestions...)

	case *multierror.Error:
		for _, inner := range e.Errors {
			collectAnnotations(inner, diags)
		}

	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			collectAnnotations(inner, diags)
		}

	case interface{ Unwrap() error }:
		collectAnnotations(e.Unwrap(), diags)
	}
}
