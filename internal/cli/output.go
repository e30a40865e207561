package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/r9s-ai/reportingcloud/internal/logx"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type printer struct {
	out    io.Writer
	format string
	color  bool
}

func newPrinter(out io.Writer, format string) *printer {
	return &printer{out: out, format: format, color: logx.IsTerminal(out)}
}

func (p *printer) json(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.out, string(b))
	return err
}

func (p *printer) render(headers []string, rows [][]string) error {
	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell
	border := lipgloss.NewStyle()
	if p.color {
		header = header.Bold(true).Foreground(lipgloss.Color("12"))
		border = border.Foreground(lipgloss.Color("8"))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	_, err := fmt.Fprintln(p.out, t.Render())
	return err
}

// records prints wire-shaped objects, one row each, columns in keys order.
func (p *printer) records(keys []string, records []map[string]any) error {
	if p.format == outputJSON {
		if records == nil {
			records = []map[string]any{}
		}
		return p.json(records)
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(keys))
		for i, k := range keys {
			row[i] = cellText(r[k])
		}
		rows = append(rows, row)
	}
	return p.render(keys, rows)
}

// record prints one wire-shaped object as a key/value table.
func (p *printer) record(keys []string, record map[string]any) error {
	if p.format == outputJSON {
		return p.json(record)
	}
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := record[k]; ok {
			rows = append(rows, []string{k, cellText(v)})
		}
	}
	return p.render([]string{"field", "value"}, rows)
}

// list prints a single column of strings.
func (p *printer) list(header string, items []string) error {
	if p.format == outputJSON {
		if items == nil {
			items = []string{}
		}
		return p.json(items)
	}
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{it}
	}
	return p.render([]string{header}, rows)
}

// value prints a scalar result.
func (p *printer) value(v any) error {
	if p.format == outputJSON {
		return p.json(v)
	}
	_, err := fmt.Fprintln(p.out, cellText(v))
	return err
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}
