package intelligence

import (
	"fmt"
	"strings"

	"github.com/moneymentor/advisor/internal/domain"
	"github.com/moneymentor/advisor/internal/schema"
)

// buildExtractSystemPrompt describes the classify-and-extract contract
// to the model. The output vocabulary is exactly the canonical intent
// and variable names, so no mapping layer sits between the model and
// the dialogue machine.
func buildExtractSystemPrompt() string {
	var b strings.Builder

	b.WriteString("You are an expert intent extractor for queries regarding financial calculations ")
	b.WriteString("and superannuation product comparisons in the Australian market. ")
	b.WriteString("Given the user's query and the most recent system response (if any), extract the ")
	b.WriteString("following variables and output them as a valid JSON object with no extra commentary.\n\n")

	b.WriteString("Required keys:\n")
	b.WriteString(" - intent: one of the following (pay careful attention to the distinctions):\n")
	b.WriteString("     * \"project_balance\": the user wants to know how much super they will have AT retirement\n")
	b.WriteString("     * \"retirement_outcome\": the user asks how long their money will LAST DURING retirement, or what income it can provide\n")
	b.WriteString("     * \"compare_fees_nominated\": comparing two specific named funds\n")
	b.WriteString("     * \"compare_fees_all\": comparing the current fund against all available funds\n")
	b.WriteString("     * \"find_cheapest\": looking for the lowest fee fund\n")
	b.WriteString("     * \"compare_balance_projection\": comparing projected balances between two funds\n")
	b.WriteString("     * \"calculate_age_pension\": asking about age pension eligibility or amount\n")
	b.WriteString("     * \"update_variable\": a what-if that changes one input and re-runs the previous calculation, like \"what if I retire at 67\"\n")
	b.WriteString("     * \"unknown\": if no other intent matches\n\n")

	b.WriteString("Slot keys (omit or use null for anything not mentioned):\n")
	b.WriteString(" - current_fund: the user's current super fund, if mentioned\n")
	b.WriteString(" - nominated_fund: the fund the user wants to compare against, if mentioned by the user or in the previous system response\n")
	b.WriteString(" - current_age: the user's age as an integer\n")
	b.WriteString(" - current_balance: the user's super balance in dollars as a number\n")
	b.WriteString(" - current_income: the user's annual income in dollars. Look for patterns like '$X income', 'earning $X'\n")
	b.WriteString(" - retirement_age: the user's retirement age as an integer. Look for patterns like 'retiring at X'\n")
	b.WriteString(" - super_included: IMPORTANT, only set true or false when the user EXPLICITLY states whether their income includes super. Otherwise omit it\n")
	b.WriteString(" - retirement_balance: their balance at retirement, if mentioned\n")
	b.WriteString(" - retirement_income_option: one of \"same_as_current\", \"modest_single\", \"modest_couple\", \"comfortable_single\", \"comfortable_couple\", or \"custom\"\n")
	b.WriteString(" - retirement_income: a custom retirement income amount if specified\n")
	b.WriteString(" - owns_home: true or false, only when the user states whether they own their home\n")
	b.WriteString(" - relationship_status: \"single\" or \"couple\", only when stated\n\n")

	b.WriteString("For numeric values:\n")
	b.WriteString("- Convert k/K to thousands (150k = 150000)\n")
	b.WriteString("- Convert m/M to millions (1.5m = 1500000)\n")
	b.WriteString("- Remove dollar signs and commas\n\n")

	b.WriteString("Resolving references:\n")
	b.WriteString("- If the query says 'this fund' or 'that fund', look for fund names in the previous system response\n")
	b.WriteString("- If the user mentions their own fund ('my fund', 'I am with') and another fund from the previous response, assign current_fund and nominated_fund accordingly\n")
	b.WriteString("- When the user specifies a custom retirement income ('what if I took $70k instead'), extract retirement_income AND set retirement_income_option to \"custom\"\n")
	b.WriteString("- When the user delays retirement ('what if I retired 2 years later'), ADD the years to the existing retirement age rather than using the raw number, and never produce a retirement age below the current age\n")
	b.WriteString("- A what-if that changes a single variable is intent \"update_variable\"; leave all other variables unchanged\n\n")

	b.WriteString("Examples:\n")
	b.WriteString("- 'How much super will I have when I retire?' -> intent: project_balance\n")
	b.WriteString("- 'How long will my super last in retirement?' -> intent: retirement_outcome\n")
	b.WriteString("- 'Will I get the age pension?' -> intent: calculate_age_pension\n")
	b.WriteString("- 'What if I worked until I was 67' -> intent: update_variable, retirement_age: 67\n")
	b.WriteString("- 'Say I took $70k as income instead' -> intent: update_variable, retirement_income: 70000, retirement_income_option: \"custom\"\n\n")

	b.WriteString("Return a valid JSON object.")
	return b.String()
}

func buildExtractUserPrompt(userText, previousResponse string) string {
	if previousResponse == "" {
		return "User query: " + userText
	}
	return fmt.Sprintf("User query: %s\n\nPrevious system response: %s", userText, previousResponse)
}

// buildScopedExtractPrompt asks for a single variable from a short
// answer given while the machine is blocked on that variable.
func buildScopedExtractPrompt(name domain.VarName) string {
	spec, ok := schema.Vars[name]
	desc := string(name)
	if ok && spec.Prompt != "" {
		desc = spec.Prompt
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The user was just asked: %q\n", desc)
	fmt.Fprintf(&b, "Extract the value of %q from their reply.\n", name)
	b.WriteString("Respond with a JSON object holding exactly one key, \"value\".\n")
	if ok {
		switch spec.Type {
		case schema.TypeInteger:
			b.WriteString("The value must be a plain integer.\n")
		case schema.TypeCurrency:
			b.WriteString("The value must be a number in dollars. Convert k to thousands and m to millions, strip $ and commas.\n")
		case schema.TypeBoolean:
			b.WriteString("The value must be true or false.\n")
		case schema.TypeEnum:
			fmt.Fprintf(&b, "The value must be one of: %s.\n", strings.Join(spec.EnumValues, ", "))
		}
	}
	b.WriteString("If the reply does not answer the question, use null.")
	return b.String()
}

// buildFundMatchSystemPrompt mirrors the extraction register for fund
// name resolution.
func buildFundMatchSystemPrompt() string {
	return "You are a superannuation fund name matcher. Given a user's input and a list of " +
		"available fund names, find the best matching fund. Consider abbreviations, common names, " +
		"and variations. Return EXACTLY the matching fund name from the list, or 'None' if no match is found.\n\n" +
		"For example:\n" +
		"- 'ART Super' should match 'Australian Retirement Trust (ART)'\n" +
		"- 'Aussie Super' should match 'AustralianSuper'\n" +
		"- 'Colonial' should match 'Colonial First State FirstChoice'"
}

func buildFundMatchUserPrompt(input string, names []string) string {
	return fmt.Sprintf("Available fund names:\n%s\nUser input: %s\nReturn the exact matching fund name from the list, or 'None' if no match found.",
		strings.Join(names, "\n"), input)
}

// buildClarifySystemPrompt keeps clarification responses short and on
// task.
func buildClarifySystemPrompt() string {
	return "You are a financial expert helping Australian consumers build financial confidence. " +
		"Keep responses extremely concise and direct. " +
		"Never mention financial advice, plans, or strategies. " +
		"Focus only on gathering the specific information needed."
}
