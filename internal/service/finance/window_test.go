package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flock/internal/domain/models"
)

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowCurrentMonth, w)

	w, err = ParseWindow("last_year")
	require.NoError(t, err)
	assert.Equal(t, WindowLastYear, w)

	_, err = ParseWindow("fortnight")
	assert.Error(t, err)
}

func TestWindowContains(t *testing.T) {
	tests := []struct {
		window Window
		date   string
		want   bool
	}{
		{WindowCurrentMonth, "2024-03-01", true},
		{WindowCurrentMonth, "2024-03-28", true},
		{WindowCurrentMonth, "2024-03-29", false},
		{WindowCurrentMonth, "2024-02-29", false},
		{WindowLastMonth, "2024-02-01", true},
		{WindowLastMonth, "2024-02-29", true},
		{WindowLastMonth, "2024-03-01", false},
		{WindowCurrentYear, "2024-01-01", true},
		{WindowCurrentYear, "2023-12-31", false},
		{WindowLastYear, "2023-01-01", true},
		{WindowLastYear, "2023-12-31", true},
		{WindowLastYear, "2024-01-01", false},
		{WindowAll, "1999-05-05", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.window)+"/"+tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Contains(models.MustDate(tt.date), now))
		})
	}
}

func TestWindowContainsUndated(t *testing.T) {
	assert.False(t, WindowCurrentYear.Contains(models.Date{}, now))
	assert.True(t, WindowAll.Contains(models.Date{}, now))
}

func TestFilterWindow(t *testing.T) {
	txs := []models.Transaction{
		sale(10, "2024-03-02"),
		expense("feed", 20, "2024-02-10"),
		sale(30, "2024-03-27"),
	}
	got := FilterWindow(txs, WindowCurrentMonth, now)

	require.Len(t, got, 2)
	assert.Equal(t, 10.0, got[0].Amount)
	assert.Equal(t, 30.0, got[1].Amount)
}
