package assistant

import (
	"fmt"
	"strings"
)

func questionPrompt(contextJSON []byte, query string) string {
	return fmt.Sprintf(`System: You are a helpful assistant. Use ONLY the supplied context below to answer the user's natural language query. Do not hallucinate or fetch outside data. Return JSON { answer: string, usedDataSummary: {...} }.

Context: %s

User Query: %s`, contextJSON, query)
}

func recommendationPrompt(expensesJSON []byte) string {
	return fmt.Sprintf(`You are a personal finance assistant. Using ONLY the expense records below:
1) Give a one-sentence summary of this user's monthly spending.
2) List the top 3 categories with their share of total spending as percentages.
3) Give 3 actionable recommendations, each with a concrete estimated monthly saving amount.
4) Detect likely recurring subscriptions from merchants, amounts, dates, notes, tags and the recurring flag.
Respond with JSON only, with exactly these keys:
{"summary": string, "top_categories": [{"category": string, "amount": number, "percent": number}], "recommendations": [{"text": string, "estimated_savings": number}], "subscriptions": [{"merchant": string, "monthly_amount": number}]}

Expenses JSON: %s`, expensesJSON)
}

// stripCodeFence removes a surrounding markdown code block, which models often add around JSON.
func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}
