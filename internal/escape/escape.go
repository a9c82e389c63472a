// Package escape converts untrusted values into text that is safe inside
// HTML element content and double- or single-quoted attribute values.
package escape

import (
	"fmt"
	"strconv"
	"strings"
)

var replacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// String escapes v. nil yields "", numbers and booleans are formatted first.
// Each input byte is rewritten at most once, so an existing "&amp;" becomes
// "&amp;amp;" rather than being left alone.
func String(v any) string {
	return replacer.Replace(stringify(v))
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
