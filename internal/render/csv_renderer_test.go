package render

import (
	"auroscope/internal/models"
	"auroscope/internal/testutil"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Телефон;Имя;Дата визита;Продолжительность;Комплекс;Аура;Дата рождения;Пол"

func goldenRecord() models.Record {
	return models.Record{
		"phone":      "79990001122",
		"name":       "A",
		"date_visit": "2024-01-01 10:00:00+0000",
		"duration":   json.Number("30"),
		"club_id":    "c1",
		"text_aura":  map[string]any{"percent": "91%"},
		"birth_date": "1990-01-01",
		"sex":        "M",
	}
}

func TestWriteCSV_GoldenRow(t *testing.T) {
	var buf bytes.Buffer
	rows, err := WriteCSV(&buf, []models.Record{goldenRecord()}, models.ClubLookup{"c1": "ClubOne"})
	require.NoError(t, err)

	assert.Equal(t, 1, rows)
	assert.Equal(t,
		"\xEF\xBB\xBF"+header+"\n79990001122;A;2024-01-01 13:00:00;30;ClubOne;91;1990-01-01;M\n",
		buf.String())
}

func TestWriteCSV_EmptyWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	rows, err := WriteCSV(&buf, nil, models.ClubLookup{})
	require.NoError(t, err)

	assert.Zero(t, rows)
	assert.Equal(t, "\xEF\xBB\xBF"+header+"\n", buf.String())
}

func TestWriteCSV_UnknownClubAndDegradedFields(t *testing.T) {
	records := []models.Record{
		{
			"phone":      json.Number("79990001122"),
			"date_visit": "вчера",
			"duration":   "45",
			"club_id":    "c9",
			"aura":       "72.5%",
		},
		nil,
		{"name": "Only name", "text_aura": "{\"percent\": 12}"},
	}

	var buf bytes.Buffer
	rows, err := WriteCSV(&buf, records, models.ClubLookup{"c1": "ClubOne"})
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "79990001122;;вчера;45;c9;72.5;;", lines[1])
	assert.Equal(t, ";Only name;;;;12;;", lines[2])
}

func TestWriteCSV_QuotesDelimiter(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteCSV(&buf, []models.Record{{"name": "Ivanov; Ivan"}}, nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "\n;\"Ivanov; Ivan\";;;;;;\n")
}

func TestCsvRenderer_RenderWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	r := NewCsvRenderer(&testutil.MockLogger{})

	got, err := r.Render([]models.Record{goldenRecord()}, models.ClubLookup{"c1": "ClubOne"}, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(data), "ClubOne")
}

func TestCsvRenderer_RenderMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.csv")
	r := NewCsvRenderer(&testutil.MockLogger{})

	_, err := r.Render(nil, nil, path)
	assert.Error(t, err)
}
