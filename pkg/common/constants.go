package common

// Markets a heatmap category can belong to.
const (
	MarketTSE = "tse"
	MarketOTC = "otc"
)

const (
	// HeatmapBaseURL is the nstock.tw treemap page. t1=1 selects listed
	// stocks, t4=1 the percentage-change display mode; the iid query set by
	// category scopes the map to one industry.
	HeatmapBaseURL = "https://www.nstock.tw/market_index/heatmap?t1=1&t2=0&t3=0&t4=1&t5=0&"

	// HistockRankURL is the daily top-losers ranking table (m=4, t=dt).
	HistockRankURL = "https://histock.tw/stock/rank.aspx?m=4&d=0&t=dt"

	DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// CategoryMarket maps a heatmap category to its market, used by batch mode to
// pick only TSE or only OTC captures.
var CategoryMarket = map[string]string{
	"tse": MarketTSE, "otc": MarketOTC,

	"tse-semi": MarketTSE, "tse-elec": MarketTSE, "tse-computer": MarketTSE,
	"tse-plastic": MarketTSE, "tse-electrical": MarketTSE, "tse-construction": MarketTSE,
	"tse-channel": MarketTSE, "tse-green": MarketTSE,

	"otc-elec": MarketOTC, "otc-semi": MarketOTC, "otc-computer": MarketOTC,
	"otc-construction": MarketOTC, "otc-other": MarketOTC, "otc-info": MarketOTC,
	"otc-tourism": MarketOTC, "otc-green": MarketOTC,
}

// CategoryParams holds the nstock industry query fragment per capture type.
// "all" is the whole-market overview; unknown types fall back to it.
var CategoryParams = map[string]string{
	"all":              "iid&nh=0",
	"otc-elec":         "iid=28&nh=0",
	"otc-semi":         "iid=24&nh=0",
	"otc-construction": "iid=14&nh=0",
}
