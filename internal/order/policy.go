package order

import (
	"fmt"
	"strings"

	"nixos-type-generator/internal/common"
	"nixos-type-generator/internal/errs"
)

// Policy selects how definitions are ordered.
type Policy int

const (
	// Topological emits referenced definitions before their referrers.
	Topological Policy = iota
	// Insertion emits definitions in first-registration order.
	Insertion
)

// Policies lists the accepted policy names.
var Policies = []string{Topological.String(), Insertion.String()}

// String returns the policy name used in configuration and flags.
func (p Policy) String() string {
	switch p {
	case Topological:
		return "topological"
	case Insertion:
		return "insertion"
	default:
		return common.UnknownStr
	}
}

// ParsePolicy parses a policy name. The empty string selects Topological.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "topological", "topo":
		return Topological, nil
	case "insertion", "insert":
		return Insertion, nil
	default:
		return Topological, fmt.Errorf("%w: unknown ordering policy %q, expected one of %s",
			errs.ErrInvalidArguments, s, strings.Join(Policies, ", "))
	}
}
