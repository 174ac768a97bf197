package entity

// ResultEnvelope is the on-disk artifact contract shared by the analyzer and
// scraper outputs. Data is either map[category][]ResolvedStock or
// []ScrapedRow; Count is only set for scrape artifacts.
type ResultEnvelope struct {
	Status      string      `json:"status"`
	Data        interface{} `json:"data"`
	Version     string      `json:"version,omitempty"`
	Market      string      `json:"market,omitempty"`
	Source      string      `json:"source,omitempty"`
	Count       int         `json:"count,omitempty"`
	LastUpdated string      `json:"last_updated,omitempty"`
	GeneratedAt string      `json:"generated_at,omitempty"`
}
