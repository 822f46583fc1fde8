package intelligence

import (
	"context"
	"strings"

	"github.com/moneymentor/advisor/internal/funds"
	"github.com/moneymentor/advisor/internal/llm"
)

// FundMatcher resolves user-supplied fund names against the fee table.
type FundMatcher interface {
	// Match returns the canonical fund name, or false if the input
	// cannot be resolved to any known fund.
	Match(ctx context.Context, input string) (string, bool)
}

type fundMatcher struct {
	client llm.Client
	table  *funds.Table
}

// NewFundMatcher creates a FundMatcher. Lexical matching against the
// table runs first; the model only sees inputs the table cannot
// resolve, such as abbreviations and nicknames.
func NewFundMatcher(client llm.Client, table *funds.Table) FundMatcher {
	return &fundMatcher{client: client, table: table}
}

func (m *fundMatcher) Match(ctx context.Context, input string) (string, bool) {
	if name, ok := m.table.MatchName(input); ok {
		return name, true
	}
	if m.client == nil {
		return "", false
	}

	names := m.table.Names()
	resp, err := m.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskMatchFund,
		SystemPrompt: buildFundMatchSystemPrompt(),
		UserPrompt:   buildFundMatchUserPrompt(input, names),
	})
	if err != nil {
		return "", false
	}

	matched := strings.TrimSpace(resp.Text)
	for _, n := range names {
		if matched == n {
			return n, true
		}
	}
	return "", false
}
