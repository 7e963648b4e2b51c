package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// render writes an exchange payload in the configured output format. Payloads that
// are not JSON are written unchanged.
func (a *app) render(w io.Writer, body []byte) error {
	format := a.v.GetString("output")
	if format != formatJSON && format != formatTable {
		return fmt.Errorf("unsupported output format: %s", format)
	}

	var payload any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		_, err = fmt.Fprintln(w, string(body))
		return err
	}

	if format == formatTable {
		_, err := fmt.Fprintln(w, renderTable(payload))
		return err
	}

	out, err := sonic.ConfigStd.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// renderTable lays out objects as field/value rows and arrays of objects as one row
// per element. Anything else is printed as a single cell.
func renderTable(payload any) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	switch v := payload.(type) {
	case map[string]any:
		t.AppendHeader(table.Row{"Field", "Value"})
		for _, k := range sortedKeys(v) {
			t.AppendRow(table.Row{k, cell(v[k])})
		}
	case []any:
		columns := arrayColumns(v)
		if len(columns) == 0 {
			t.AppendHeader(table.Row{"Value"})
			for _, item := range v {
				t.AppendRow(table.Row{cell(item)})
			}
			break
		}
		header := make(table.Row, len(columns))
		for i, c := range columns {
			header[i] = c
		}
		t.AppendHeader(header)
		for _, item := range v {
			obj, _ := item.(map[string]any)
			row := make(table.Row, len(columns))
			for i, c := range columns {
				row[i] = cell(obj[c])
			}
			t.AppendRow(row)
		}
	default:
		return cell(v)
	}
	return t.Render()
}

// arrayColumns returns the sorted union of keys when every element is an object.
func arrayColumns(items []any) []string {
	seen := make(map[string]struct{})
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		for k := range obj {
			seen[k] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := sonic.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
