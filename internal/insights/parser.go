package insights

import (
	"strings"

	"github.com/finsight/spending-analyzer/internal/types"
)

// ParseResponse turns the completion service's two-section text layout into
// a structured bundle. The parser is line-oriented and section-aware: it
// recognizes the INSIGHTS:/RECOMMENDATIONS: headers by case-insensitive
// substring, bullet lines within the insights section, and the four field
// prefixes within the recommendations section. Everything else is ignored,
// so malformed or reordered responses degrade to a smaller bundle rather
// than an error.
func ParseResponse(text string) types.InsightBundle {
	var bundle types.InsightBundle

	section := ""
	var current *types.Recommendation
	flush := func() {
		if current != nil {
			bundle.Recommendations = append(bundle.Recommendations, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		upper := strings.ToUpper(line)
		if strings.Contains(upper, "INSIGHTS:") {
			section = "insights"
			continue
		}
		if strings.Contains(upper, "RECOMMENDATIONS:") {
			section = "recommendations"
			continue
		}

		switch section {
		case "insights":
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
				insight := strings.TrimSpace(strings.TrimLeft(line, "-•"))
				if insight != "" {
					bundle.Insights = append(bundle.Insights, insight)
				}
			}
		case "recommendations":
			switch {
			case strings.HasPrefix(line, "Priority:"):
				flush()
				current = &types.Recommendation{
					Priority: strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "Priority:"))),
				}
			case current == nil:
				// Field lines before any Priority: line never start a record
			case strings.HasPrefix(line, "Category:"):
				current.Category = strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
			case strings.HasPrefix(line, "Action:"):
				current.Action = strings.TrimSpace(strings.TrimPrefix(line, "Action:"))
			case strings.HasPrefix(line, "Impact:"):
				current.Impact = strings.TrimSpace(strings.TrimPrefix(line, "Impact:"))
			}
		}
	}
	flush()

	return bundle
}
