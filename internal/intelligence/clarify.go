package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/llm"
	"github.com/moneymentor/advisor/internal/schema"
)

// ClarifyRequest describes the slot being asked for and enough dialogue
// context to phrase the question naturally.
type ClarifyRequest struct {
	Variable    domain.VarName
	Intent      domain.Intent
	IsNewIntent bool
	PreviousVar domain.VarName

	// Invalid marks a re-ask after the previous answer failed
	// validation. Hint carries the constraint that was violated.
	Invalid bool
	Hint    string
}

// Clarifier phrases the question that unblocks the dialogue machine.
type Clarifier interface {
	// Prompt never fails; when the model is unavailable it falls back
	// to deterministic templates.
	Prompt(ctx context.Context, req ClarifyRequest) string
}

type clarifier struct {
	client llm.Client
}

// NewClarifier creates a Clarifier backed by the given client. A nil
// client always uses the deterministic templates.
func NewClarifier(client llm.Client) Clarifier {
	return &clarifier{client: client}
}

// intentAcknowledgments open the first question of a newly recognized
// intent so the user knows what is being worked on.
var intentAcknowledgments = map[domain.Intent]string{
	domain.IntentProjectBalance:       "I'll help you project your superannuation balance at retirement.",
	domain.IntentCompareFeesNominated: "I'll help you compare the fees between your super fund and a comparison fund.",
	domain.IntentCompareFeesAll:       "I'll analyze how your fund's fees compare to others.",
	domain.IntentFindCheapest:         "I'll help you find the super fund with the lowest fees.",
	domain.IntentCompareProjection:    "I'll compare the projected retirement balances between two funds.",
	domain.IntentRetirementOutcome:    "I'll help you understand how long your retirement savings might last.",
	domain.IntentAgePension:           "I'll help you estimate your age pension entitlement.",
	domain.IntentUnknown:              "I'll help you with your super query.",
}

func (c *clarifier) Prompt(ctx context.Context, req ClarifyRequest) string {
	fallback := deterministicPrompt(req)
	if c.client == nil {
		return fallback
	}

	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskClarify,
		SystemPrompt: buildClarifySystemPrompt(),
		UserPrompt:   buildClarifyUserPrompt(req),
	})
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		return fallback
	}
	return strings.TrimSpace(resp.Text)
}

func buildClarifyUserPrompt(req ClarifyRequest) string {
	desc := schema.PromptFor(req.Variable)

	if req.Invalid {
		prompt := fmt.Sprintf("The user's last answer for their %s was not usable.", desc)
		if req.Hint != "" {
			prompt += " " + req.Hint
		}
		return prompt + fmt.Sprintf(" Ask again for their %s in a friendly way.", desc)
	}

	if req.IsNewIntent {
		ack := intentAcknowledgments[req.Intent]
		if ack == "" {
			ack = intentAcknowledgments[domain.IntentUnknown]
		}
		return fmt.Sprintf("Create a concise response that:\n"+
			"1. Starts with: '%s'\n"+
			"2. Adds: 'I'll just need to gather a bit more information.'\n"+
			"3. Asks for the user's %s\n"+
			"Keep it clear.", ack, desc)
	}

	if req.PreviousVar != "" {
		return fmt.Sprintf("Create a response using exactly this format:\n"+
			"Thanks for that. Next, could you kindly tell me your %s?", desc)
	}
	return fmt.Sprintf("Could you please tell me your %s?", desc)
}

// deterministicPrompt is the template path used when no model is
// available or its call fails.
func deterministicPrompt(req ClarifyRequest) string {
	desc := schema.PromptFor(req.Variable)

	if req.Invalid {
		msg := fmt.Sprintf("Sorry, I couldn't use that answer. Could you please tell me your %s?", desc)
		if req.Hint != "" {
			msg = req.Hint + " " + msg
		}
		return msg
	}

	if req.IsNewIntent {
		ack := intentAcknowledgments[req.Intent]
		if ack == "" {
			ack = intentAcknowledgments[domain.IntentUnknown]
		}
		return fmt.Sprintf("%s I'll just need to gather a bit more information. Could you please tell me your %s?", ack, desc)
	}

	if req.PreviousVar != "" {
		return fmt.Sprintf("Thanks for that. Next, could you kindly tell me your %s?", desc)
	}
	return fmt.Sprintf("Could you please tell me your %s?", desc)
}
