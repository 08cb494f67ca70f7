package classifier

import (
	"fmt"
	"strings"

	"github.com/oukeidos/desksort/internal/openai"
)

// DefaultCategories are offered to the model when none are configured.
var DefaultCategories = []string{"Office", "Development", "Entertainment", "System Tools", "Other"}

const systemPrompt = "You are an assistant that sorts desktop applications into categories. " +
	"Respond with JSON only. Do not add Markdown formatting or any other text."

// BuildMessages renders the system and user prompt for one classification round.
func BuildMessages(names, categories []string) []openai.Message {
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	var example strings.Builder
	example.WriteString("{\n  \"categories\": {\n")
	for i, cat := range categories {
		fmt.Fprintf(&example, "    %q: [\"app%d\", \"app%d\"]", cat, 2*i+1, 2*i+2)
		if i < len(categories)-1 {
			example.WriteString(",")
		}
		example.WriteString("\n")
	}
	example.WriteString("  }\n}")

	user := fmt.Sprintf(`Sort the following desktop applications into suitable categories.
Applications: %s

Return the result as JSON in exactly this shape:
%s

Every application must appear in exactly one category, and every application must be categorized.
Return raw JSON only, without Markdown formatting or extra text.`, strings.Join(names, ", "), example.String())

	return []openai.Message{
		{Role: openai.RoleSystem, Content: systemPrompt},
		{Role: openai.RoleUser, Content: user},
	}
}
