package columnar

import (
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// RowsToColumns allocates one sequence of len(rows) elements per schema
// field and stores rows[i][field] at index i, narrowed with policy. Row
// fields missing from the schema are ignored; schema fields missing from
// a row stay zero.
func RowsToColumns(rows []Row, schema Schema, policy typedarray.Policy) (*Columns, error) {
	cols, err := rowsToColumns(rows, schema, policy)
	if err != nil {
		metrics.ObserveError(metrics.OpRowsToColumns, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpRowsToColumns, "columns", int(cols.MemoryUsage()))
	return cols, nil
}

func rowsToColumns(rows []Row, schema Schema, policy typedarray.Policy) (*Columns, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	cols := NewColumns()
	vals := make([]float64, len(rows))
	for _, f := range schema.Fields {
		for i, row := range rows {
			vals[i] = row[f.Name]
		}
		seq, err := typedarray.FromFloat64s(vals, f.Kind, policy)
		if err != nil {
			return nil, err
		}
		if err := cols.Set(f.Name, seq); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

// ColumnsToRows is the inverse of RowsToColumns. fields defaults to every
// column in order. The row count comes from the first field; any other
// field of a different length fails with ErrorTypeInconsistentColumnLength.
func ColumnsToRows(cols *Columns, fields ...string) ([]Row, error) {
	rows, err := columnsToRows(cols, fields)
	if err != nil {
		metrics.ObserveError(metrics.OpColumnsToRows, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpColumnsToRows, "rows", 0)
	return rows, nil
}

func columnsToRows(cols *Columns, fields []string) ([]Row, error) {
	if cols == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "columns are required")
	}
	if len(fields) == 0 {
		fields = cols.names
	}
	if len(fields) == 0 {
		return []Row{}, nil
	}

	values := make([][]float64, len(fields))
	n := -1
	for j, name := range fields {
		seq, err := cols.Column(name)
		if err != nil {
			return nil, err
		}
		if values[j], err = typedarray.Float64s(seq); err != nil {
			return nil, err
		}
		switch {
		case n < 0:
			n = len(values[j])
		case len(values[j]) != n:
			return nil, errors.Newf(errors.ErrorTypeInconsistentColumnLength,
				"column %q has %d values, %q has %d", name, len(values[j]), fields[0], n).
				WithDetail("field", name).
				WithDetail("expected", n).
				WithDetail("actual", len(values[j]))
		}
	}

	rows := make([]Row, n)
	for i := range rows {
		row := make(Row, len(fields))
		for j, name := range fields {
			row[name] = values[j][i]
		}
		rows[i] = row
	}
	return rows, nil
}
