package cli

import (
	"io"
	"math"
	"strings"

	"github.com/ajitpratap0/typedbuf/pkg/columnar"
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/json"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

func readJSON(r io.Reader, v interface{}) error {
	return json.Decode(r, v)
}

func readText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "read input")
	}
	return strings.TrimSpace(string(data)), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	return json.Encode(w, v)
}

// jsonNumber maps values JSON cannot carry (NaN, ±Inf) to null.
func jsonNumber(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func jsonValues(seq any) ([]interface{}, error) {
	vals, err := typedarray.Float64s(seq)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = jsonNumber(v)
	}
	return out, nil
}

func jsonRows(rows []columnar.Row) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		m := make(map[string]interface{}, len(row))
		for k, v := range row {
			m[k] = jsonNumber(v)
		}
		out[i] = m
	}
	return out
}
