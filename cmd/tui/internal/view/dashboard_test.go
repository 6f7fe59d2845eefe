package view

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
)

func TestRenderChart(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Contains(t, renderChart(nil, "GHS"), "No sales")
	})

	t.Run("ScalesToPeak", func(t *testing.T) {
		out := renderChart([]dashboard.Bucket{
			{Key: "2025-03-18", Revenue: decimal.NewFromInt(50)},
			{Key: "2025-03-19", Revenue: decimal.NewFromInt(100)},
		}, "GHS")

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		assert.Len(t, lines, 2)
		assert.Equal(t, chartWidth/2, strings.Count(lines[0], "█"))
		assert.Equal(t, chartWidth, strings.Count(lines[1], "█"))
		assert.Contains(t, lines[1], "GHS 100.00")
	})

	t.Run("AllZero", func(t *testing.T) {
		out := renderChart([]dashboard.Bucket{{Key: "2025-03", Revenue: decimal.Zero}}, "GHS")
		assert.NotContains(t, out, "█")
	})
}
