package convo

import (
	"strings"

	"github.com/moneymentor/advisor/internal/domain"
)

// suggestions is the static adjacency map that chains intents into
// natural follow-up questions. At most one suggestion is outstanding;
// it activates only on an affirmative next turn.
var suggestions = map[domain.Intent]domain.Intent{
	domain.IntentProjectBalance:       domain.IntentRetirementOutcome,
	domain.IntentRetirementOutcome:    domain.IntentAgePension,
	domain.IntentCompareFeesNominated: domain.IntentCompareProjection,
	domain.IntentCompareFeesAll:       domain.IntentFindCheapest,
	domain.IntentFindCheapest:         domain.IntentCompareProjection,
}

// suggestionLeads phrases the follow-up offer attached to an answer.
var suggestionLeads = map[domain.Intent]string{
	domain.IntentRetirementOutcome: "Would you like to know how long that balance might last in retirement?",
	domain.IntentAgePension:        "Would you like an estimate of your age pension entitlement as well?",
	domain.IntentCompareProjection: "Would you like to compare the projected retirement balances of those funds?",
	domain.IntentFindCheapest:      "Would you like me to find the fund with the lowest fees for you?",
}

var affirmativePhrases = []string{
	"yes", "yeah", "yep", "sure", "ok", "okay", "please",
	"sounds good", "why not", "go ahead", "absolutely", "do it",
}

// isAffirmative reports whether a short utterance accepts an outstanding
// suggestion. Long messages are treated as fresh requests, not answers.
func isAffirmative(text string) bool {
	t := strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(text), ".!")))
	if t == "" || len(t) > 40 {
		return false
	}
	for _, phrase := range affirmativePhrases {
		if t == phrase || strings.HasPrefix(t, phrase+" ") {
			return true
		}
	}
	return false
}
