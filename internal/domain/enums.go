package domain

// Intent classifies the purpose of a user's request.
type Intent string

const (
	IntentProjectBalance       Intent = "project_balance"
	IntentCompareFeesNominated Intent = "compare_fees_nominated"
	IntentCompareFeesAll       Intent = "compare_fees_all"
	IntentFindCheapest         Intent = "find_cheapest"
	IntentCompareProjection    Intent = "compare_balance_projection"
	IntentRetirementOutcome    Intent = "retirement_outcome"
	IntentUpdateVariable       Intent = "update_variable"
	IntentAgePension           Intent = "calculate_age_pension"
	IntentUnknown              Intent = "unknown"
)

// validIntents is the set of known intent names for validation.
var validIntents = map[Intent]bool{
	IntentProjectBalance: true, IntentCompareFeesNominated: true,
	IntentCompareFeesAll: true, IntentFindCheapest: true,
	IntentCompareProjection: true, IntentRetirementOutcome: true,
	IntentUpdateVariable: true, IntentAgePension: true,
	IntentUnknown: true,
}

// IsValidIntent returns true if the given name is a known intent.
func IsValidIntent(name Intent) bool {
	return validIntents[name]
}

// VarName is a canonical slot identifier. The same identifier is used by the
// dialogue layer, the coercion schema, and the calculation engine; friendly
// phrasing happens only at the presentation boundary.
type VarName string

const (
	VarCurrentAge             VarName = "current_age"
	VarCurrentBalance         VarName = "current_balance"
	VarCurrentIncome          VarName = "current_income"
	VarRetirementAge          VarName = "retirement_age"
	VarCurrentFund            VarName = "current_fund"
	VarNominatedFund          VarName = "nominated_fund"
	VarSuperIncluded          VarName = "super_included"
	VarRetirementIncomeOption VarName = "retirement_income_option"
	VarRetirementIncome       VarName = "retirement_income"
	VarOwnsHome               VarName = "owns_home"
	VarRelationshipStatus     VarName = "relationship_status"

	// Derived fields. Never asked for, only computed.
	VarIncomeNetOfSuper      VarName = "income_net_of_super"
	VarAfterTaxIncome        VarName = "after_tax_income"
	VarRetirementBalance     VarName = "retirement_balance"
	VarRetirementDrawdownAge VarName = "retirement_drawdown_age"
)

// RetirementIncomeOption selects how annual retirement income is determined.
type RetirementIncomeOption string

const (
	IncomeSameAsCurrent     RetirementIncomeOption = "same_as_current"
	IncomeModestSingle      RetirementIncomeOption = "modest_single"
	IncomeModestCouple      RetirementIncomeOption = "modest_couple"
	IncomeComfortableSingle RetirementIncomeOption = "comfortable_single"
	IncomeComfortableCouple RetirementIncomeOption = "comfortable_couple"
	IncomeCustom            RetirementIncomeOption = "custom"
)

// ValidRetirementIncomeOptions is the canonical set of accepted option strings.
var ValidRetirementIncomeOptions = map[string]bool{
	"same_as_current": true, "modest_single": true, "modest_couple": true,
	"comfortable_single": true, "comfortable_couple": true, "custom": true,
}

// RelationshipStatus is used by the age-pension means test.
type RelationshipStatus string

const (
	StatusSingle RelationshipStatus = "single"
	StatusCouple RelationshipStatus = "couple"
)
