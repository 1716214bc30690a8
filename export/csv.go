// Copyright (c) 2025 The boho-calc-flow Authors.
// Licensed under the MIT License. See LICENSE.

// Package export renders calculation history for download.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Ridhi-Vadlamudi/boho-calc-flow/models"
)

const dateLayout = "2006-01-02 15:04:05"

var header = []string{"Expression", "Result", "Tags", "Notes", "Date"}

// Filename is the suggested download name for an export made at t.
func Filename(t time.Time) string {
	return "bohocalc-history-" + t.UTC().Format("2006-01-02") + ".csv"
}

// WriteHistoryCSV writes entries as CSV with every field quoted. Embedded
// quotes are doubled.
func WriteHistoryCSV(w io.Writer, entries []models.HistoryEntry) error {
	bw := bufio.NewWriter(w)

	if err := writeRow(bw, header); err != nil {
		return err
	}
	for _, e := range entries {
		notes := ""
		if e.Notes != nil {
			notes = *e.Notes
		}
		row := []string{
			e.Expression,
			e.Result,
			strings.Join(e.Tags, ", "),
			notes,
			e.CreatedAt.UTC().Format(dateLayout),
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write history export: %w", err)
	}
	return nil
}

// writeRow quotes every field, which encoding/csv does not do.
func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return fmt.Errorf("failed to write history export: %w", err)
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return fmt.Errorf("failed to write history export: %w", err)
		}
	}
	if _, err := w.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write history export: %w", err)
	}
	return nil
}
