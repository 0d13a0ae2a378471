package eventpipe

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func manySheets(t *testing.T, n int) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i := 2; i <= n; i++ {
		if _, err := f.NewSheet(fmt.Sprintf("Sheet%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPreflightBytes(t *testing.T) {
	p := New(Config{Text: Budgets{MaxBytes: 10}})
	err := p.preflight(FormatText, File{Data: []byte(strings.Repeat("x", 11))}, p.cfg.Text)
	if !errors.Is(err, ErrPreflight) {
		t.Fatalf("err = %v, want ErrPreflight", err)
	}
	var pe *PreflightError
	if !errors.As(err, &pe) || pe.What != "bytes" || pe.Measured != 11 || pe.Limit != 10 {
		t.Fatalf("detail = %+v", pe)
	}

	if err := p.preflight(FormatText, File{Data: []byte("exactly 10")}, p.cfg.Text); err != nil {
		t.Fatalf("at-limit input should pass: %v", err)
	}
}

func TestPreflightDeclaredSizeWins(t *testing.T) {
	p := New(Config{Text: Budgets{MaxBytes: 10}})
	err := p.preflight(FormatText, File{Size: 100, Data: []byte("tiny")}, p.cfg.Text)
	if !errors.Is(err, ErrPreflight) {
		t.Fatalf("declared size should be checked: %v", err)
	}
}

func TestPreflightChars(t *testing.T) {
	p := New(Config{Text: Budgets{MaxChars: 5}})
	err := p.preflight(FormatText, File{Data: []byte("abcdef")}, p.cfg.Text)
	var pe *PreflightError
	if !errors.As(err, &pe) || pe.What != "chars" {
		t.Fatalf("err = %v, want chars violation", err)
	}

	// Runes, not bytes: five multibyte characters pass a 5-char limit.
	if err := p.preflight(FormatText, File{Data: []byte("ééééé")}, p.cfg.Text); err != nil {
		t.Fatalf("5 runes should pass: %v", err)
	}
}

func TestPreflightSheets(t *testing.T) {
	p := New(Config{})
	limit := p.cfg.Spreadsheet.MaxSheets // default 30

	err := p.preflight(FormatXLSX, File{Data: manySheets(t, limit+1)}, p.cfg.Spreadsheet)
	var pe *PreflightError
	if !errors.As(err, &pe) || pe.What != "sheets" {
		t.Fatalf("err = %v, want sheets violation", err)
	}
	if pe.Measured != int64(limit+1) || pe.Limit != int64(limit) {
		t.Fatalf("detail = %+v", pe)
	}

	if err := p.preflight(FormatXLSX, File{Data: manySheets(t, limit)}, p.cfg.Spreadsheet); err != nil {
		t.Fatalf("at-limit workbook should pass: %v", err)
	}
}

func TestPreflightRows(t *testing.T) {
	p := New(Config{Spreadsheet: Budgets{MaxRows: 3}})

	f := excelize.NewFile()
	for i := 1; i <= 5; i++ {
		cell, _ := excelize.CoordinatesToCellName(1, i)
		if err := f.SetCellValue("Sheet1", cell, "x"); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	perr := p.preflight(FormatXLSX, File{Data: buf.Bytes()}, p.cfg.Spreadsheet)
	var pe *PreflightError
	if !errors.As(perr, &pe) || pe.What != "rows" {
		t.Fatalf("err = %v, want rows violation", perr)
	}
}

func TestCheckChars(t *testing.T) {
	if err := checkChars("short", Budgets{MaxChars: 10}); err != nil {
		t.Fatalf("within budget: %v", err)
	}
	if err := checkChars("this is too long", Budgets{MaxChars: 10}); !errors.Is(err, ErrPreflight) {
		t.Fatalf("err = %v, want ErrPreflight", err)
	}
	if err := checkChars("anything goes", Budgets{}); err != nil {
		t.Fatalf("zero budget means unbounded: %v", err)
	}
}
