package ginfile

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Tuple is an ordered sequence rendered with parentheses, e.g. ('l1_loss', 0.095).
type Tuple []any

// Dict is an ordered dictionary rendered with braces, e.g. {'a': 1}.
// Go maps are rendered too, with their entries sorted by rendered key.
type Dict []DictItem

// DictItem is one key/value entry of a Dict.
type DictItem struct {
	Key   any
	Value any
}

// FormatValue renders an override value in the dialect's literal syntax.
// Top-level strings are written verbatim; strings nested inside a list,
// tuple or dict are quoted.
func FormatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return formatLiteral(v)
}

func formatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return quote(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case Tuple:
		if len(x) == 1 {
			return "(" + formatLiteral(x[0]) + ",)"
		}
		return "(" + joinLiterals(len(x), func(i int) any { return x[i] }) + ")"
	case Dict:
		return "{" + joinItems(len(x), func(i int) (any, any) { return x[i].Key, x[i].Value }) + "}"
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	case reflect.Slice, reflect.Array:
		return "[" + joinLiterals(rv.Len(), func(i int) any { return rv.Index(i).Interface() }) + "]"
	case reflect.Map:
		return formatMap(rv)
	}
	return fmt.Sprint(v)
}

func joinLiterals(n int, at func(int) any) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = formatLiteral(at(i))
	}
	return strings.Join(parts, ", ")
}

func joinItems(n int, at func(int) (any, any)) string {
	parts := make([]string, n)
	for i := range parts {
		k, v := at(i)
		parts[i] = formatLiteral(k) + ": " + formatLiteral(v)
	}
	return strings.Join(parts, ", ")
}

func formatMap(rv reflect.Value) string {
	type entry struct {
		key   string
		value any
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: formatLiteral(iter.Key().Interface()), value: iter.Value().Interface()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.key + ": " + formatLiteral(e.value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// formatFloat keeps a decimal point on integral values and switches to
// exponent notation outside [1e-4, 1e16).
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bitSize)
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quote prefers single quotes and switches to double quotes when s contains
// a single quote but no double quote.
func quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteRune(q)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case q:
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}
