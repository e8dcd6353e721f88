package sqlcraft

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// encodeValue implements encode_value: either parameterize a leaf
// value (emit a placeholder, append to params) or inline it as a literal.
// Returns the SQL fragment and the parameter values to append (zero or
// one, in order).
func (c *callCtx) encodeValue(v any) (string, []any) {
	if c.inline {
		return inlineLiteral(v), nil
	}

	return "?", []any{v}
}

// inlineLiteral implements the inline=true column of the table, plus
// the decimal.Decimal and uuid.UUID extensions from SPEC_FULL's Value
// Encoder supplement: exact-text decimals (no float rounding) and
// quoted-string UUIDs.
func inlineLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteStringLiteral(t)
	case bool:
		if t {
			return "TRUE"
		}

		return "FALSE"
	case Name:
		return asciiUpper(strings.ReplaceAll(string(t), "-", " "))
	case decimal.Decimal:
		if t.Exponent() < 0 {
			return t.StringFixed(-t.Exponent())
		}

		return t.String()
	case uuid.UUID:
		return quoteStringLiteral(t.String())
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	case float32, float64:
		return strconv.FormatFloat(toFloat64(t), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func quoteStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func toFloat64(v any) float64 {
	switch t := v.(type) {
	case float32:
		return float64(t)
	case float64:
		return t
	default:
		return 0
	}
}

// isNullLiteral reports whether v is the SQL "null" leaf: "[= x nil]"
// renders "x IS NULL" rather than a parameterized equality.
func isNullLiteral(v any) bool {
	return v == nil
}
