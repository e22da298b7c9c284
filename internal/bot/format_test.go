package bot

import (
	"auroscope/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStats_Full(t *testing.T) {
	stats := &models.ReportStats{
		TotalRecords:      4,
		UniqueClients:     3,
		LowAura:           1,
		NormalAura:        2,
		HighAura:          1,
		AvgGenerationTime: 42.24,
		DoneCount:         3,
		ProcessCount:      1,
		DonePercentage:    75,
		ProcessPercentage: 25,
		ClubStats: []models.ClubStats{
			{ClubID: "c1", ClubName: "Tom & Jerry", TotalGenerations: 3, UniqueClients: 2, Percentage: 75},
			{ClubID: "c2", ClubName: "Second", TotalGenerations: 1, UniqueClients: 1, Percentage: 25},
		},
	}

	text := FormatStats(dailyTitle, stats)

	assert.Contains(t, text, "📊 <b>Ежедневный отчет</b>")
	assert.Contains(t, text, "📈 Всего генераций: <b>4</b>")
	assert.Contains(t, text, "🔴 Низкая аура (&lt;60%): <b>1</b>")
	assert.Contains(t, text, "🟢 Высокая аура (&gt;80%): <b>1</b>")
	assert.Contains(t, text, "🏢 <i>Tom &amp; Jerry</i>\n   Генераций: <b>3</b> (75.0%)\n   Клиентов: <b>2</b>")
	assert.Contains(t, text, "Среднее время генерации:</b> 42.2 сек")
	assert.NotContains(t, text, "(done)")
	assert.Contains(t, text, "✅ Done: <b>3</b> (75.0%)")
	assert.Contains(t, text, "⏳ Process: <b>1</b> (25.0%)")
}

func TestFormatStats_Empty(t *testing.T) {
	text := FormatStats(reportTitle, &models.ReportStats{})

	assert.Contains(t, text, "📈 Всего генераций: <b>0</b>")
	assert.NotContains(t, text, "Статистика по комплексам")
	assert.NotContains(t, text, "Среднее время генерации")
	assert.Contains(t, text, "✅ Done: <b>0</b> (0.0%)")
}
