package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the supported output formats for CLI commands.
type OutputFormat string

const (
	// OutputFormatTable formats output as a plain aligned table
	OutputFormatTable OutputFormat = "table"
	// OutputFormatJSON formats output as indented JSON
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML formats output as YAML converted from JSON
	OutputFormatYAML OutputFormat = "yaml"
)

// ValidateOutputFormat validates that the given format string is a supported output format.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return NewUsageError(fmt.Sprintf("unsupported output format: %q (valid: table, json, yaml)", format))
	}
}

// Table collects the rows of a table rendering.
type Table struct {
	// Empty is printed instead of the table when there are no rows.
	Empty string

	headers []string
	rows    [][]string
}

// Header sets the column headers.
func (t *Table) Header(columns ...string) {
	t.headers = columns
}

// Row appends a row of cells.
func (t *Table) Row(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Printer renders command results in the selected output format.
type Printer struct {
	out       io.Writer
	format    OutputFormat
	noHeaders bool
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, format OutputFormat, noHeaders bool) *Printer {
	return &Printer{out: out, format: format, noHeaders: noHeaders}
}

// Format returns the output format.
func (p *Printer) Format() OutputFormat {
	return p.format
}

// Print writes data as JSON or YAML. For table output, fill is called to
// build the table instead.
func (p *Printer) Print(data interface{}, fill func(t *Table)) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(data)
	case OutputFormatYAML:
		return p.printYAML(data)
	}

	var t Table
	fill(&t)
	p.render(&t)
	return nil
}

// Message prints a line of human-oriented text. It is suppressed for JSON
// and YAML output so machine-readable output stays parseable.
func (p *Printer) Message(format string, args ...interface{}) {
	if p.format != OutputFormatTable {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) printJSON(data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(p.out, string(encoded))
	return err
}

// printYAML goes through JSON so field names match the JSON output.
func (p *Printer) printYAML(data interface{}) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(encoded, &generic); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	yamlData, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = p.out.Write(yamlData)
	return err
}

func (p *Printer) render(t *Table) {
	if len(t.rows) == 0 {
		if t.Empty != "" {
			fmt.Fprintln(p.out, text.FgYellow.Sprint(t.Empty))
		}
		return
	}

	w := table.NewWriter()
	w.SetOutputMirror(p.out)
	style := table.StyleLight
	style.Options = table.OptionsNoBordersAndSeparators
	w.SetStyle(style)
	w.SuppressTrailingSpaces()

	if !p.noHeaders && len(t.headers) > 0 {
		w.AppendHeader(toRow(t.headers))
	}
	for _, cells := range t.rows {
		w.AppendRow(toRow(cells))
	}
	w.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}

// FormatStatus colours plan, execution and test case statuses.
func FormatStatus(status string) string {
	switch status {
	case "":
		return "-"
	case "COMPLETED", "SUCCESS", "PASSED":
		return text.FgGreen.Sprint(status)
	case "EXECUTION_FAILED", "DISCOVERY_FAILED", "FAILURE", "FAILED":
		return text.FgRed.Sprint(status)
	case "DISCOVERING", "EXECUTING":
		return text.FgYellow.Sprint(status)
	default:
		return status
	}
}

// FormatTime renders a timestamp in local time, or "-" when unset.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// OrDash returns "-" for empty strings.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
