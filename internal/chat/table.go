package chat

import "strconv"

// TableData is one tabular payload attached to a bot reply.
type TableData struct {
	Headers     []string
	Rows        []Row
	AccountName string
	Metadata    Metadata

	// malformed is set when headers or rows were missing or not arrays.
	malformed bool
}

// Metadata carries the optional totals and row count of a table.
type Metadata struct {
	HasTotals bool
	Totals    []any // totals values in the payload's own order
	RowCount  int
}

// Valid reports whether the table had array-shaped headers and rows.
func (t TableData) Valid() bool {
	return !t.malformed
}

// Row is one table row. Producers send either an array of values or an
// object keyed by field name, and both forms may appear in one table.
type Row interface {
	// Values returns the row's values in payload order.
	Values() []any
	// Lookup finds a value by exact key; positional rows never match.
	Lookup(key string) (any, bool)
	// Keys returns field names in payload order; nil for positional rows.
	Keys() []string
}

// Positional is an array-form row.
type Positional []any

func (p Positional) Values() []any { return []any(p) }

func (p Positional) Lookup(string) (any, bool) { return nil, false }

func (p Positional) Keys() []string { return nil }

// Keyed is an object-form row.
type Keyed Object

func (k Keyed) Values() []any { return Object(k).Values() }

func (k Keyed) Lookup(key string) (any, bool) { return Object(k).Get(key) }

func (k Keyed) Keys() []string { return Object(k).Keys() }

// ParseTable converts a decoded JSON value into a TableData. Missing or
// non-array headers/rows mark the table as malformed instead of failing.
func ParseTable(v any) TableData {
	obj, ok := v.(Object)
	if !ok {
		return TableData{malformed: true}
	}
	var t TableData

	rawHeaders, _ := obj.Get("headers")
	headers, hok := rawHeaders.([]any)
	rawRows, _ := obj.Get("rows")
	rows, rok := rawRows.([]any)
	if !hok || !rok {
		t.malformed = true
	}

	t.Headers = make([]string, 0, len(headers))
	for _, h := range headers {
		s, _ := Stringify(h)
		t.Headers = append(t.Headers, s)
	}
	t.Rows = make([]Row, 0, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, parseRow(r))
	}

	if name, ok := obj.Get("accountName"); ok && truthy(name) {
		t.AccountName, _ = Stringify(name)
	}
	if md, ok := obj.Get("metadata"); ok {
		t.Metadata = parseMetadata(md)
	}
	return t
}

func parseRow(v any) Row {
	switch r := v.(type) {
	case []any:
		return Positional(r)
	case Object:
		return Keyed(r)
	default:
		// scalars and nulls carry no values
		return Positional(nil)
	}
}

func parseMetadata(v any) Metadata {
	obj, ok := v.(Object)
	if !ok {
		return Metadata{}
	}
	var md Metadata
	if ht, ok := obj.Get("hasTotals"); ok {
		md.HasTotals = truthy(ht)
	}
	if totals, ok := obj.Get("totals"); ok {
		switch t := totals.(type) {
		case Object:
			md.Totals = t.Values()
		case []any:
			md.Totals = t
		}
	}
	if rc, ok := obj.Get("rowCount"); ok {
		md.RowCount = toInt(rc)
	}
	return md
}

func toInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(t)
		if err == nil {
			return n
		}
	}
	return 0
}
