package telegram

import (
	"fmt"
	"sort"
	"strings"

	"twstock-heatmap/internal/entity"
)

// FormatTopLosers renders the per-category reconciliation results as a single
// Markdown message. Categories are sorted for a stable message layout.
func FormatTopLosers(results map[string][]entity.ResolvedStock) string {
	var b strings.Builder
	b.WriteString("📉 *台股跌幅排行* 📉\n\n")

	categories := make([]string, 0, len(results))
	for category := range results {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	empty := true
	for _, category := range categories {
		stocks := results[category]
		if len(stocks) == 0 {
			continue
		}
		empty = false
		b.WriteString(fmt.Sprintf("*- - - - - %s - - - - -*\n", category))
		for _, s := range stocks {
			b.WriteString(fmt.Sprintf("`%s` %s  %s\n", s.Ticker, s.Name, s.Change))
		}
		b.WriteString("\n")
	}

	if empty {
		return "📉 *台股跌幅排行*\n\n今日無符合條件的重挫個股。"
	}
	return strings.TrimRight(b.String(), "\n")
}
