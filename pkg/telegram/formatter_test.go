package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"twstock-heatmap/internal/entity"
)

func TestFormatTopLosers(t *testing.T) {
	msg := FormatTopLosers(map[string][]entity.ResolvedStock{
		"tse":      {{Ticker: "2330", Name: "台積電", Change: "-5.2%"}},
		"otc-semi": {{Ticker: "8299", Name: "群聯", Change: "-4.1%"}},
		"otc-elec": {},
	})

	assert.Contains(t, msg, "2330")
	assert.Contains(t, msg, "台積電")
	assert.Contains(t, msg, "-5.2%")
	// empty categories are omitted
	assert.NotContains(t, msg, "otc-elec")
	// stable ordering: otc-semi sorts before tse
	assert.Less(t, strings.Index(msg, "otc-semi"), strings.Index(msg, "tse"))
}

func TestFormatTopLosersAllEmpty(t *testing.T) {
	msg := FormatTopLosers(map[string][]entity.ResolvedStock{"tse": {}})
	assert.Contains(t, msg, "無符合條件")
}
