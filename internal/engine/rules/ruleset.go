package rules

import (
	"fmt"
	"sort"
	"strings"

	"skiplint/internal/core/errors"
)

const (
	DefaultOptionalMarker = "Optional"
	DefaultUnionMarker    = "Union"
)

// RuleSet fixes the literal names the rules match on. Two rule sets that
// differ only in labels behave identically.
type RuleSet struct {
	// Name identifies the rule set in reports, e.g. "skp".
	Name           string
	BaseClass      string
	WrapperFunc    string
	CodePrefix     string
	OptionalMarker string
	UnionMarker    string
}

var profiles = map[string]RuleSet{
	"skp": {
		Name:           "skp",
		BaseClass:      "SkippableBaseModel",
		WrapperFunc:    "Skip",
		CodePrefix:     "SKP",
		OptionalMarker: DefaultOptionalMarker,
		UnionMarker:    DefaultUnionMarker,
	},
	"tcs": {
		Name:           "tcs",
		BaseClass:      "AdvancedBaseModel",
		WrapperFunc:    "Skip",
		CodePrefix:     "TCS",
		OptionalMarker: DefaultOptionalMarker,
		UnionMarker:    DefaultUnionMarker,
	},
}

// DefaultProfile is used when no profile is configured.
const DefaultProfile = "skp"

// Profile returns a built-in rule set by name.
func Profile(name string) (RuleSet, error) {
	rs, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return RuleSet{}, errors.New(errors.CodeNotFound, fmt.Sprintf("unknown rule profile %q (available: %s)", name, strings.Join(ProfileNames(), ", ")))
	}
	return rs, nil
}

func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithDefaults fills unset markers.
func (rs RuleSet) WithDefaults() RuleSet {
	if rs.OptionalMarker == "" {
		rs.OptionalMarker = DefaultOptionalMarker
	}
	if rs.UnionMarker == "" {
		rs.UnionMarker = DefaultUnionMarker
	}
	if rs.Name == "" {
		rs.Name = strings.ToLower(rs.CodePrefix)
	}
	return rs
}

func (rs RuleSet) Validate() error {
	fields := []struct{ key, value string }{
		{"base_class", rs.BaseClass},
		{"wrapper", rs.WrapperFunc},
		{"code_prefix", rs.CodePrefix},
		{"optional_marker", rs.OptionalMarker},
		{"union_marker", rs.UnionMarker},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			err := &errors.DomainError{
				Code:    errors.CodeValidationError,
				Message: fmt.Sprintf("rule set %s must not be empty", f.key),
			}
			return err.WithContext(errors.CtxRuleSet, rs.Name)
		}
	}
	return nil
}

// Code returns the full diagnostic code for a rule number, e.g. SKP101.
func (rs RuleSet) Code(number int) string {
	return fmt.Sprintf("%s%d", rs.CodePrefix, number)
}

const (
	numNestedWrap  = 100
	numInvalidType = 101
	numMissingOpt  = 102
)

// Info describes one rule for listings and report metadata.
type Info struct {
	Code        string
	Name        string
	Description string
}

// Describe lists the rules of the set in evaluation order.
func (rs RuleSet) Describe() []Info {
	return []Info{
		{Code: rs.Code(numNestedWrap), Name: "no-nested-wrapping", Description: fmt.Sprintf("%s must not type wrapped", rs.WrapperFunc)},
		{Code: rs.Code(numInvalidType), Name: "valid-argument-shape", Description: fmt.Sprintf("Invalid type argument in %s definition", rs.WrapperFunc)},
		{Code: rs.Code(numMissingOpt), Name: "optional-required", Description: fmt.Sprintf("%s expects %s type as argument", rs.WrapperFunc, rs.OptionalMarker)},
	}
}
