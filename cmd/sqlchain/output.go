package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	sqlchain "github.com/biyonik/go-sqlchain"
)

var formats = map[string]bool{
	"table":    true,
	"csv":      true,
	"markdown": true,
	"json":     true,
	"yaml":     true,
}

func validFormat(format string) error {
	if !formats[format] {
		return fmt.Errorf("format option %s is not supported", format)
	}
	return nil
}

// writeRecords, satırları istenen biçimde w'ye yazar.
func writeRecords(w io.Writer, format string, set *sqlchain.RecordSet) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(set.Maps())
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(set.Maps()); err != nil {
			return err
		}
		return enc.Close()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(set.Columns))
	for i, col := range set.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range set.Rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = formatValue(v)
		}
		t.AppendRow(r)
	}

	switch format {
	case "csv":
		t.RenderCSV()
	case "markdown":
		t.RenderMarkdown()
	default:
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	return nil
}

// writeValues, tek satırlık anahtar/değer çıktısı yazar (exec, ping, dry-run).
func writeValues(w io.Writer, format string, columns []string, values []any) error {
	return writeRecords(w, format, &sqlchain.RecordSet{
		Columns: columns,
		Rows:    [][]any{values},
	})
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
