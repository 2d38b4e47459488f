package vector

import (
	"fmt"
	"strings"
)

// Filter is the parsed form of a filter expression. Drivers translate it to
// their store's native filter representation.
type Filter struct {
	// Field is the metadata field the filter applies to.
	Field string

	// Op is the comparison operator. "ne" is the only supported operator.
	Op string

	// Value is the unescaped comparison value.
	Value string
}

// NotEquals builds the exclusion filter expression for a metadata field,
// e.g. NotEquals("category", "it's") == `category ne 'it''s'`. Single quotes
// in the value are escaped by doubling since the value is embedded in a
// quoted expression string.
func NotEquals(field, value string) string {
	return fmt.Sprintf("%s ne '%s'", field, strings.ReplaceAll(value, "'", "''"))
}

// ParseFilter parses a filter expression of the form `field ne 'value'` into
// its structured form, undoing the quote escaping. The empty string parses to
// a nil filter. Anything else that does not match the grammar returns
// ErrBadFilter.
func ParseFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}

	field, rest, ok := strings.Cut(expr, " ")
	if !ok || field == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadFilter, expr)
	}

	op, quoted, ok := strings.Cut(rest, " ")
	if !ok || op != "ne" {
		return nil, fmt.Errorf("%w: unsupported operator in %q", ErrBadFilter, expr)
	}

	if len(quoted) < 2 || !strings.HasPrefix(quoted, "'") || !strings.HasSuffix(quoted, "'") {
		return nil, fmt.Errorf("%w: value must be single-quoted in %q", ErrBadFilter, expr)
	}

	inner := quoted[1 : len(quoted)-1]

	// Every quote inside the value must appear as an escaped pair.
	if strings.Contains(strings.ReplaceAll(inner, "''", ""), "'") {
		return nil, fmt.Errorf("%w: unescaped quote in %q", ErrBadFilter, expr)
	}

	return &Filter{
		Field: field,
		Op:    op,
		Value: strings.ReplaceAll(inner, "''", "'"),
	}, nil
}
