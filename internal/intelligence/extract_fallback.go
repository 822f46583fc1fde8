package intelligence

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/schema"
)

var (
	agePattern    = regexp.MustCompile(`(?i)\b(?:i'?m|i am|aged?)\s+(\d{2,3})\b`)
	retirePattern = regexp.MustCompile(`(?i)\bretir\w*\s+(?:at|age)\s+(\d{2,3})\b`)
	moneyPattern  = regexp.MustCompile(`(?i)\$\s*[\d,]+(?:\.\d+)?\s*[km]?|\b[\d,]+(?:\.\d+)?\s*[km]\b`)
)

// fallbackExtract is the deterministic path used when no model is
// configured or the model call fails. Keyword classification plus a
// few conservative patterns; anything uncertain stays unset.
func fallbackExtract(userText string) *Extraction {
	e := &Extraction{Intent: fallbackIntent(userText)}

	if m := agePattern.FindStringSubmatch(userText); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil && schema.ValidateAge(age) == nil {
			e.CurrentAge = &age
		}
	}
	if m := retirePattern.FindStringSubmatch(userText); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil && age <= schema.MaxValidAge {
			e.RetirementAge = &age
		}
	}

	// Currency amounts are only safe to place when exactly one appears
	// and its role is unambiguous from nearby words.
	if amounts := moneyPattern.FindAllString(userText, -1); len(amounts) == 1 {
		if value, err := schema.ParseCurrency(amounts[0]); err == nil && value > 0 {
			lower := strings.ToLower(userText)
			switch {
			case strings.Contains(lower, "income") || strings.Contains(lower, "earn") || strings.Contains(lower, "salary"):
				e.CurrentIncome = &value
			case strings.Contains(lower, "balance") || strings.Contains(lower, "super") || strings.Contains(lower, "saved"):
				e.CurrentBalance = &value
			}
		}
	}

	return e
}

func fallbackIntent(userText string) domain.Intent {
	q := strings.ToLower(userText)
	switch {
	case strings.Contains(q, "what if"):
		return domain.IntentUpdateVariable
	case strings.Contains(q, "pension"):
		return domain.IntentAgePension
	case strings.Contains(q, "cheapest") || strings.Contains(q, "lowest fee"):
		return domain.IntentFindCheapest
	case strings.Contains(q, "how long") || strings.Contains(q, "last"):
		return domain.IntentRetirementOutcome
	case strings.Contains(q, "compare") && strings.Contains(q, "balance"):
		return domain.IntentCompareProjection
	case strings.Contains(q, "compare") && strings.Contains(q, "all"):
		return domain.IntentCompareFeesAll
	case strings.Contains(q, "compare"):
		return domain.IntentCompareFeesNominated
	case strings.Contains(q, "project") || strings.Contains(q, "how much") || strings.Contains(q, "at retirement"):
		return domain.IntentProjectBalance
	default:
		return domain.IntentUnknown
	}
}
