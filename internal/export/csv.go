package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mamadbah2/flock/internal/domain/models"
)

// ContentType is the media type of CSV downloads.
const ContentType = "text/csv"

// Filename names the download of a report kind for a date range.
func Filename(kind, dateRange string) string {
	return fmt.Sprintf("%s_report_%s.csv", kind, dateRange)
}

// Header returns the column keys of a report, taken from its first row.
func Header(rows []models.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys()
}

// Records lays rows out under the header of the first row. Keys missing
// from a later row render as empty cells; extra keys are dropped.
func Records(rows []models.Row) [][]string {
	header := Header(rows)
	if header == nil {
		return nil
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, row := range rows {
		record := make([]string, len(header))
		for i, key := range header {
			if v, ok := row.Get(key); ok {
				record[i] = FormatValue(v)
			}
		}
		records = append(records, record)
	}
	return records
}

// WriteRowsCSV serialises report rows with a header line. An empty report
// writes nothing.
func WriteRowsCSV(w io.Writer, rows []models.Row) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	for _, record := range Records(rows) {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// FormatValue renders a scalar cell. Zero numbers render as "0", never blank.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.UTC().Format(time.RFC3339)
	case models.Date:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
