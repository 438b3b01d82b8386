package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"finconsole/models"
)

// Export formats for a transaction history.
const (
	ExportPDF  = "pdf"
	ExportXLSX = "xlsx"
)

var historyHeaders = []string{"Date", "Transaction ID", "Mode", "Reference", "Amount", "Note"}

const historyDateLayout = "2006-01-02 15:04:05"

// HistoryReport is one collection account's filtered history ready for export.
type HistoryReport struct {
	Account      models.CollectionAccount
	FilterLabel  string
	Transactions []models.Transaction
}

func (r HistoryReport) total() decimal.Decimal {
	total := decimal.Zero
	for _, t := range r.Transactions {
		total = total.Add(t.Amount)
	}
	return total
}

// ExportContentType maps an export format to its MIME type.
func ExportContentType(format string) (string, error) {
	switch strings.ToLower(format) {
	case ExportPDF:
		return "application/pdf", nil
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}
	return "", fmt.Errorf("unsupported export format %q", format)
}

// WriteHistory renders the report in format to w.
func WriteHistory(w io.Writer, format string, r HistoryReport) error {
	switch strings.ToLower(format) {
	case ExportPDF:
		return writeHistoryPDF(w, r)
	case ExportXLSX:
		return writeHistoryXLSX(w, r)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func historyRow(t models.Transaction) []string {
	return []string{
		t.Timestamp.Format(historyDateLayout),
		t.ID.String(),
		string(t.PayMode),
		t.Reference(),
		t.Amount.StringFixed(2),
		t.Note,
	}
}

func writeHistoryPDF(w io.Writer, r HistoryReport) error {
	widths := []float64{38, 30, 20, 34, 28, 40}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Transaction History")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 6, fmt.Sprintf("Account: %s  %s", r.Account.AccountNumber, r.Account.Name))
	pdf.Ln(6)
	if r.FilterLabel != "" {
		pdf.Cell(40, 6, "Filter: "+r.FilterLabel)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	for i, h := range historyHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 10)
	for _, t := range r.Transactions {
		for i, v := range historyRow(t) {
			align := ""
			if i == 4 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(7)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 7, r.total().StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(7)

	return pdf.Output(w)
}

func writeHistoryXLSX(w io.Writer, r HistoryReport) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return err
	}

	row := sheet.AddRow()
	row.AddCell().SetValue("Account")
	row.AddCell().SetValue(r.Account.AccountNumber)
	row.AddCell().SetValue(r.Account.Name)
	if r.FilterLabel != "" {
		row = sheet.AddRow()
		row.AddCell().SetValue("Filter")
		row.AddCell().SetValue(r.FilterLabel)
	}

	row = sheet.AddRow()
	for _, h := range historyHeaders {
		row.AddCell().SetValue(h)
	}
	for _, t := range r.Transactions {
		row = sheet.AddRow()
		for i, v := range historyRow(t) {
			if i == 4 {
				amount, _ := t.Amount.Float64()
				row.AddCell().SetFloatWithFormat(amount, "0.00")
				continue
			}
			row.AddCell().SetValue(v)
		}
	}

	row = sheet.AddRow()
	row.AddCell().SetString("Total")
	for i := 1; i < 4; i++ {
		row.AddCell().SetString("")
	}
	total, _ := r.total().Float64()
	row.AddCell().SetFloatWithFormat(total, "0.00")

	return file.Write(w)
}
