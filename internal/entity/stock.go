package entity

// StockMapping is one row of the name→ticker reference table
// (data/StockMapping.csv). Names are the display names used by the source
// websites; last write wins on duplicates.
type StockMapping struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Industry string `json:"industry"`
	Market   string `json:"market"`
}

// ResolvedStock is a heatmap candidate that survived reconciliation. Ticker
// is always non-empty and always serialized first.
type ResolvedStock struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Change string `json:"change"`
}

// ScrapedRow is one row of the histock ranking table. Industry and market
// come from the mapping table and stay empty when the ticker is unknown.
type ScrapedRow struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Change   string `json:"change"`
	Industry string `json:"industry"`
	Market   string `json:"market"`
}
