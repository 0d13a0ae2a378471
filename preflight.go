package eventpipe

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/xuri/excelize/v2"
)

// preflight rejects oversized or overcomplex inputs before any expensive
// extraction. Only cheap structural scans are allowed here: byte size for
// everything, page count for PDFs, sheet/row/cell counts for spreadsheets,
// rune count for raw text formats. Images get the byte budget only — their
// cost is bounded by the completion call's own token ceiling.
func (p *Pipeline) preflight(format Format, f File, b Budgets) error {
	size := f.Size
	if size <= 0 {
		size = int64(len(f.Data))
	}
	if size > b.MaxBytes {
		return &PreflightError{What: "bytes", Measured: size, Limit: b.MaxBytes}
	}

	switch format {
	case FormatPDF:
		return p.preflightPDF(f.Data, b)
	case FormatXLSX:
		return p.preflightWorkbook(f.Data, b)
	case FormatText, FormatMarkdown, FormatCSV, FormatICS:
		chars := int64(utf8.RuneCount(f.Data))
		if b.MaxChars > 0 && chars > int64(b.MaxChars) {
			return &PreflightError{What: "chars", Measured: chars, Limit: int64(b.MaxChars)}
		}
	}
	return nil
}

// checkChars enforces the extracted-character budget for formats whose text
// is only known after conversion (docx, odt, html, pdf text batches).
func checkChars(text string, b Budgets) error {
	if b.MaxChars <= 0 {
		return nil
	}
	chars := int64(utf8.RuneCountInString(text))
	if chars > int64(b.MaxChars) {
		return &PreflightError{What: "chars", Measured: chars, Limit: int64(b.MaxChars)}
	}
	return nil
}

func (p *Pipeline) preflightPDF(data []byte, b Budgets) error {
	conf := model.NewDefaultConfiguration()
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("pdf structure scan: %w", err)
	}
	if pages > b.MaxPages {
		return &PreflightError{What: "pages", Measured: int64(pages), Limit: int64(b.MaxPages)}
	}
	return nil
}

func (p *Pipeline) preflightWorkbook(data []byte, b Budgets) error {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("workbook structure scan: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) > b.MaxSheets {
		return &PreflightError{What: "sheets", Measured: int64(len(sheets)), Limit: int64(b.MaxSheets)}
	}

	var totalRows, totalCells int64
	for _, sheet := range sheets {
		rows, err := wb.Rows(sheet)
		if err != nil {
			return fmt.Errorf("workbook structure scan: %w", err)
		}
		for rows.Next() {
			totalRows++
			cols, err := rows.Columns()
			if err == nil {
				totalCells += int64(len(cols))
			}
			if totalRows > int64(b.MaxRows) || totalCells > int64(b.MaxCells) {
				break
			}
		}
		rows.Close()
		if totalRows > int64(b.MaxRows) {
			return &PreflightError{What: "rows", Measured: totalRows, Limit: int64(b.MaxRows)}
		}
		if totalCells > int64(b.MaxCells) {
			return &PreflightError{What: "cells", Measured: totalCells, Limit: int64(b.MaxCells)}
		}
	}
	return nil
}
