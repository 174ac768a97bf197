package repository

import "fmt"

// BuildHeatmapPrompt returns the vision instruction for one heatmap capture.
// The model must rank by percentage value, not box size: heavy losers tend to
// sit in small boxes at the edges of the treemap.
func BuildHeatmapPrompt(industry string) string {
	return fmt.Sprintf(`分析這張台股市場熱力圖截圖 (%s)。

這是一個台灣股票市場熱力圖：
- 紅色 = 上漲
- 綠色 = 下跌 (顏色越深綠，跌幅越大)
- 灰色 = 平盤
- 每個方塊包含：公司名稱、漲跌幅百分比

任務：找出「跌幅百分比最大」（數值最負）的 5 檔股票。

⚠️ 關鍵要求 (CRITICAL):
1. 【忽略方塊大小】：不要只看大方塊！跌幅大的股票通常在「小型方塊」中（例如 -5%% 的小方塊比 -0.5%% 的大方塊更重要）。
2. 【搜尋深綠色】：優先掃描顏色最深的綠色區塊，無論它多小。
3. 【精確排序】：必須嚴格按照百分比數值排序（例如 -5.42%% 排在 -2.74%% 前面）。
4. 【完整掃描】：請仔細檢查圖片右側和下方的邊緣區域，那裡常有跌幅重的小型股。

請返回 JSON 格式：
{
  "top_losers": [
    {"name": "公司名稱", "change": "跌幅百分比"},
    ... (共5筆)
  ],
  "market": "taiwan",
  "industry": "%s"
}`, industry, industry)
}
