package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flock/internal/domain/models"
)

func TestWriteRowsCSVOverviewRow(t *testing.T) {
	row := models.NewRow(
		models.Field{Key: "report_type", Value: "Flock Overview"},
		models.Field{Key: "total_sheep", Value: 0},
		models.Field{Key: "total_revenue", Value: 0.0},
		models.Field{Key: "net_profit", Value: -120.5},
		models.Field{Key: "generated_date", Value: "2024-03-28"},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteRowsCSV(&buf, []models.Row{row}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "report_type,total_sheep,total_revenue,net_profit,generated_date", lines[0])
	assert.Equal(t, "Flock Overview,0,0,-120.5,2024-03-28", lines[1])
}

func TestWriteRowsCSVUsesFirstRowHeader(t *testing.T) {
	first := models.NewRow(models.Field{Key: "a", Value: "1"}, models.Field{Key: "b", Value: "x, y"})
	second := models.NewRow(models.Field{Key: "b", Value: "z"}, models.Field{Key: "c", Value: "dropped"})

	var buf bytes.Buffer
	require.NoError(t, WriteRowsCSV(&buf, []models.Row{first, second}))

	assert.Equal(t, "a,b\n1,\"x, y\"\n,z\n", buf.String())
}

func TestWriteRowsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRowsCSV(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "zero float", in: 0.0, want: "0"},
		{name: "float", in: 1234.5, want: "1234.5"},
		{name: "int", in: 7, want: "7"},
		{name: "bool", in: true, want: "true"},
		{name: "date", in: models.MustDate("2024-03-15"), want: "2024-03-15"},
		{name: "time", in: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), want: "2024-03-15T08:00:00Z"},
		{name: "zero time", in: time.Time{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "overview_report_current_month.csv", Filename("overview", "current_month"))
}
