// Package schema declares the variable schema for every canonical slot and
// converts raw extracted values into typed, validated domain values. It is a
// pure layer: nothing here touches session state.
package schema

import (
	"errors"

	"github.com/moneymentor/advisor/internal/domain"
)

var (
	// ErrCannotCoerce indicates the raw value could not be converted to the
	// slot's declared type. Callers recover by re-asking.
	ErrCannotCoerce = errors.New("value cannot be coerced to slot type")

	// ErrOutOfRange indicates the value parsed but failed domain validation
	// (age bounds, negative currency). Callers re-ask with a more specific
	// clarification.
	ErrOutOfRange = errors.New("value outside valid range")
)

// VarType classifies how a slot's raw value is coerced.
type VarType string

const (
	TypeInteger  VarType = "integer"
	TypeCurrency VarType = "currency"
	TypeBoolean  VarType = "boolean"
	TypeEnum     VarType = "enum"
	TypeString   VarType = "string"
)

// VarSpec is the declarative schema entry for one canonical variable.
type VarSpec struct {
	Type VarType

	// EnumValues lists allowed values for TypeEnum slots.
	EnumValues []string

	// TruePhrases/FalsePhrases configure phrase matching for TypeBoolean
	// slots. Matching is case-insensitive; single words match on word
	// boundaries, multi-word phrases by substring. False is checked first.
	TruePhrases  []string
	FalsePhrases []string

	// Prompt is the friendly description used when asking for this slot.
	// Presentation only; the canonical name never leaks into prompts.
	Prompt string
}

// Vars is the static schema for every canonical variable.
var Vars = map[domain.VarName]VarSpec{
	domain.VarCurrentAge: {
		Type:   TypeInteger,
		Prompt: "current age",
	},
	domain.VarCurrentBalance: {
		Type:   TypeCurrency,
		Prompt: "current superannuation balance",
	},
	domain.VarCurrentIncome: {
		Type:   TypeCurrency,
		Prompt: "current annual income",
	},
	domain.VarRetirementAge: {
		Type:   TypeInteger,
		Prompt: "desired retirement age",
	},
	domain.VarCurrentFund: {
		Type:   TypeString,
		Prompt: "super fund",
	},
	domain.VarNominatedFund: {
		Type:   TypeString,
		Prompt: "fund you'd like to compare against",
	},
	domain.VarSuperIncluded: {
		Type:         TypeBoolean,
		TruePhrases:  []string{"yes", "true", "included", "includes", "part of", "package"},
		FalsePhrases: []string{"no", "false", "not included", "separate", "on top", "additional"},
		Prompt:       "whether that income includes super contributions or they are paid on top",
	},
	domain.VarRetirementIncomeOption: {
		Type: TypeEnum,
		EnumValues: []string{
			"same_as_current", "modest_single", "modest_couple",
			"comfortable_single", "comfortable_couple", "custom",
		},
		Prompt: "preferred income option in retirement",
	},
	domain.VarRetirementIncome: {
		Type:   TypeCurrency,
		Prompt: "desired annual income in retirement",
	},
	domain.VarOwnsHome: {
		Type:         TypeBoolean,
		TruePhrases:  []string{"yes", "own", "owner", "homeowner", "mortgage", "paid off"},
		FalsePhrases: []string{"no", "rent", "renting", "renter", "boarding"},
		Prompt:       "whether you own your home",
	},
	domain.VarRelationshipStatus: {
		Type:       TypeEnum,
		EnumValues: []string{"single", "couple"},
		Prompt:     "whether the pension estimate is for a single person or a couple",
	},
}

// PromptFor returns the friendly description of a slot for presentation.
func PromptFor(name domain.VarName) string {
	if spec, ok := Vars[name]; ok {
		return spec.Prompt
	}
	return string(name)
}

// Age bounds for a plausible human range.
const (
	MinValidAge = 15
	MaxValidAge = 100
)

// ValidateAge accepts ages within the plausible human range.
func ValidateAge(age int) error {
	if age < MinValidAge || age > MaxValidAge {
		return ErrOutOfRange
	}
	return nil
}

// ValidateRetirementAge accepts a retirement age only if it is strictly
// greater than the current age and within the plausible range.
func ValidateRetirementAge(retirementAge, currentAge int) error {
	if retirementAge <= currentAge || retirementAge > MaxValidAge {
		return ErrOutOfRange
	}
	return nil
}
