package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// buildSystemInstruction constructs the system prompt for one chunk. The
// vocabulary is always present; learned rules and discretionary preferences
// are appended only when the user has any, so an empty context changes
// nothing but the omitted instruction.
func buildSystemInstruction(pctx PromptContext) string {
	var b strings.Builder

	b.WriteString("You are an expert financial analyst. Your task is to classify credit card ")
	b.WriteString("and bank statement transactions into categories.\n\n")

	b.WriteString("Use ONLY the following categories:\n")
	for _, def := range pctx.Definitions {
		b.WriteString("- " + def.Name)
		if def.Description != "" {
			b.WriteString(": " + def.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("For each transaction also decide whether the spend is discretionary ")
	b.WriteString("(optional lifestyle spending) or non-discretionary (essential).\n\n")

	if len(pctx.Rules) > 0 {
		b.WriteString("The user has saved category preferences for specific merchants. ")
		b.WriteString("Honor them whenever a description matches:\n")
		for _, rule := range pctx.Rules {
			fmt.Fprintf(&b, "- descriptions matching %q -> category %q\n", rule.MerchantPattern, rule.PreferredCategory)
		}
		b.WriteString("\n")
	}

	if len(pctx.Settings) > 0 {
		b.WriteString("The user considers these categories discretionary or not. ")
		b.WriteString("Apply these preferences to is_discretionary:\n")
		for category, discretionary := range pctx.Settings {
			fmt.Fprintf(&b, "- %s: discretionary=%t\n", category, discretionary)
		}
		b.WriteString("\n")
	}

	b.WriteString("If a merchant description is ambiguous or unknown, use your knowledge and ")
	b.WriteString("the Google Search tool to identify the merchant and its business type.\n\n")
	b.WriteString("Return the result as a JSON array of objects, each with 'id', 'category' ")
	b.WriteString("and 'is_discretionary'. Only return valid JSON. ")
	b.WriteString("If you are unsure about a transaction, use category \"Other\".")

	return b.String()
}

// buildUserPrompt serializes the chunk items as the request content.
func buildUserPrompt(items []Item) (string, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal chunk items: %w", err)
	}
	return "Classify these transactions: " + string(payload), nil
}
