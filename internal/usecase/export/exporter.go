package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"verifyme-backend/internal/domain/account"
	entryUC "verifyme-backend/internal/usecase/entry"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// exportPageSize caps a single export; filters narrow larger sets.
const exportPageSize = 10000

var contentTypes = map[Format]string{
	FormatCSV:   "text/csv",
	FormatExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:   "application/pdf",
}

var extensions = map[Format]string{
	FormatCSV:   "csv",
	FormatExcel: "xlsx",
	FormatPDF:   "pdf",
}

// Result is a rendered export ready to stream to the client.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Usecase renders the advanced-filter result set into downloadable
// files. It reuses the filter pipeline so an export always matches what
// the dashboard shows for the same request.
type Usecase struct {
	entries *entryUC.Usecase
}

func NewUsecase(entries *entryUC.Usecase) *Usecase {
	return &Usecase{entries: entries}
}

func (u *Usecase) Export(ctx context.Context, actor *account.User, format Format, req entryUC.FilterRequest) (*Result, error) {
	ct, ok := contentTypes[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	req.Page = 1
	req.PageSize = exportPageSize
	page, err := u.entries.AdvancedFilter(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	headers, rows := tabulate(page.Results)

	var data []byte
	switch format {
	case FormatCSV:
		data, err = renderCSV(headers, rows)
	case FormatExcel:
		data, err = renderExcel(headers, rows)
	case FormatPDF:
		data, err = renderPDF(headers, rows)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Filename:    fmt.Sprintf("entries-%s.%s", time.Now().UTC().Format("20060102-150405"), extensions[format]),
		ContentType: ct,
		Data:        data,
	}, nil
}

// fixed columns precede the form_data union, which varies per schema mix
var baseHeaders = []string{
	"case_id", "status", "employee", "form_schema",
	"tat_start_time", "tat_completion_time", "tat_hours", "out_of_tat", "created_at",
}

// tabulate flattens entries into a header row plus value rows. The
// form_data columns are the sorted union of keys across the result set,
// so mixed-schema exports stay rectangular.
func tabulate(entries []entryUC.EntryDTO) ([]string, [][]string) {
	keySet := map[string]bool{}
	for i := range entries {
		for k := range entries[i].FormData {
			keySet[k] = true
		}
	}
	dataKeys := make([]string, 0, len(keySet))
	for k := range keySet {
		dataKeys = append(dataKeys, k)
	}
	sort.Strings(dataKeys)

	headers := append(append([]string{}, baseHeaders...), dataKeys...)
	rows := make([][]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		row := []string{
			fmt.Sprintf("%d", e.CaseID),
			e.Status,
			e.Employee.String(),
			e.FormSchema.String(),
			e.TATStartTime.Format(time.RFC3339),
			formatTimePtr(e.TATCompletionTime),
			formatHours(e.TATDurationHours),
			fmt.Sprintf("%t", e.IsOutOfTAT),
			e.CreatedAt.Format(time.RFC3339),
		}
		for _, k := range dataKeys {
			row = append(row, formatValue(e.FormData[k]))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatHours(h *float64) string {
	if h == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *h)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func renderCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderExcel(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Entries"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pdfMaxCols keeps the landscape table legible; the remaining form_data
// columns only fit in csv/excel exports.
const pdfMaxCols = 10

func renderPDF(headers []string, rows [][]string) ([]byte, error) {
	if len(headers) > pdfMaxCols {
		headers = headers[:pdfMaxCols]
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(headers))

	pdf.SetFont("Helvetica", "B", 8)
	for _, h := range headers {
		pdf.CellFormat(colW, 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		if len(row) > len(headers) {
			row = row[:len(headers)]
		}
		for _, v := range row {
			pdf.CellFormat(colW, 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
