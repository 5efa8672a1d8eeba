// Package export writes the visible part of a grid to CSV, YAML or a
// printable text table. Cells are exported as displayed: foreign keys as
// labels, hidden columns omitted, rows in the current filter and sort order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/five82/recgrid/internal/grid"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatText Format = "txt"
)

// ParseFormat maps a config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatYAML:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Cells returns the header row and the display text of every cell.
func Cells(cols []grid.Column, rows []grid.Record) ([]string, [][]string) {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = headerText(c)
	}
	body := make([][]string, len(rows))
	for r, rec := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = ansi.Strip(grid.DisplayText(c, rec))
		}
		body[r] = line
	}
	return header, body
}

func headerText(c grid.Column) string {
	if c.Header != "" {
		return c.Header
	}
	return c.Key
}

// CSV writes a header line followed by one line per row.
func CSV(w io.Writer, cols []grid.Column, rows []grid.Record) error {
	header, body := Cells(cols, rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(body); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// YAML writes a sequence of mappings keyed by column key, preserving column
// order.
func YAML(w io.Writer, cols []grid.Column, rows []grid.Record) error {
	_, body := Cells(cols, rows)
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, line := range body {
		item := &yaml.Node{Kind: yaml.MappingNode}
		for i, c := range cols {
			item.Content = append(item.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: line[i]},
			)
		}
		doc.Content = append(doc.Content, item)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Print renders a bordered text table for printing. width bounds the table
// when positive.
func Print(title string, cols []grid.Column, rows []grid.Record, width int) string {
	header, body := Cells(cols, rows)
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(header...).
		Rows(body...)
	if width > 0 {
		t = t.Width(width)
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d rows\n", len(rows))
	return b.String()
}

// FileName builds a unique export file name for page.
func FileName(page string, format Format, now time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%s-%s.%s", page, now.Format("20060102-150405"), suffix, format)
}

// WriteFile exports to a new file under dir and returns its path.
func WriteFile(dir, page string, format Format, cols []grid.Column, rows []grid.Record, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(page, format, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	switch format {
	case FormatCSV:
		err = CSV(f, cols, rows)
	case FormatYAML:
		err = YAML(f, cols, rows)
	case FormatText:
		_, err = io.WriteString(f, Print(page, cols, rows, 0))
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
