package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildSystemPrompt folds the business context into the system prompt shared
// by every text generation call.
func BuildSystemPrompt(bizCtx map[string]interface{}) string {
	businessName := ctxString(bizCtx, "business_name")
	industry := ctxString(bizCtx, "industry")
	tone := ctxString(bizCtx, "tone")
	if tone == "" {
		tone = "professional"
	}
	audience := ctxString(bizCtx, "target_audience")

	var b strings.Builder
	b.WriteString("You are a professional business content creator. Create high-quality, engaging content.\n\n")
	b.WriteString("Business Context:\n")
	fmt.Fprintf(&b, "- Name: %s\n", businessName)
	fmt.Fprintf(&b, "- Industry: %s\n", industry)
	fmt.Fprintf(&b, "- Tone: %s\n", tone)
	fmt.Fprintf(&b, "- Target Audience: %s\n\n", audience)
	b.WriteString("Provide responses in valid JSON format with appropriate structure for the requested content type.\n")
	b.WriteString("Focus on creating practical, actionable business content that drives results.")
	return b.String()
}

// ParseResponse interprets raw model output. JSON objects pass through;
// anything else is wrapped as a plain text response.
func ParseResponse(text string) map[string]interface{} {
	trimmed := strings.TrimSpace(text)

	// Models often fence JSON in markdown blocks despite instructions.
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return parsed
	}

	return map[string]interface{}{
		"content": strings.TrimSpace(text),
		"type":    "text_response",
	}
}

func ctxString(bizCtx map[string]interface{}, key string) string {
	if bizCtx == nil {
		return ""
	}
	if v, ok := bizCtx[key].(string); ok {
		return v
	}
	return ""
}
