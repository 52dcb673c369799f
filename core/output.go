package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Printer handles all display output for the CLI.
type Printer struct {
	JSON   bool
	Writer io.Writer
}

// MarshalReport encodes a report as indented JSON, keeping section and
// field order.
func MarshalReport(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// PrintReports renders reports to the configured output. In JSON mode a
// single report is printed as an object and several as an array.
func (p *Printer) PrintReports(reports []*Report) error {
	if p.JSON {
		return p.printJSON(reports)
	}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(p.Writer)
		}
		p.printText(r, len(reports) > 1)
	}
	return nil
}

// PrintReport renders one report.
func (p *Printer) PrintReport(r *Report) error {
	return p.PrintReports([]*Report{r})
}

func (p *Printer) printText(r *Report, header bool) {
	if header {
		fmt.Fprintf(p.Writer, "File  : %s (%s)\n", r.FilePath, r.Summary())
	}
	for _, s := range r.Sections {
		fmt.Fprintf(p.Writer, "\n%s:\n", s.Name)
		if len(s.Fields) == 0 {
			placeholder := s.Placeholder
			if placeholder == "" {
				placeholder = NotApplicable
			}
			fmt.Fprintf(p.Writer, "  %s\n", placeholder)
			continue
		}
		for _, f := range s.Fields {
			fmt.Fprintf(p.Writer, "  %s: %s\n", f.Label, f.Value)
		}
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(p.Writer, "\nwarning: %s\n", w)
	}
}

func (p *Printer) printJSON(reports []*Report) error {
	var (
		b   []byte
		err error
	)
	if len(reports) == 1 {
		b, err = MarshalReport(reports[0])
	} else {
		b, err = json.MarshalIndent(reports, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Fprintln(p.Writer, string(b))
	return nil
}

// PrintInfo prints an info line (suppressed in JSON mode).
func (p *Printer) PrintInfo(msg string) {
	if !p.JSON {
		fmt.Fprintln(p.Writer, msg)
	}
}

// PrintError prints an error to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "✗ Error: "+msg)
}
