package exporter

import (
	"fmt"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// formatCell renders one table value for a report file. Floats keep
// their rounded precision without trailing zeros, dates render as
// YYYY-MM-DD, and nil becomes an empty string.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(dateLayout)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// cellValue passes native numeric and time types through for Excel
// cells so spreadsheets keep real numbers, and stringifies the rest.
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case string, float64, float32, int, int64, bool:
		return x
	case time.Time:
		return x.Format(dateLayout)
	default:
		return fmt.Sprintf("%v", x)
	}
}
