package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source yields a full snapshot of the call log.
type Source interface {
	Fetch(ctx context.Context) (Table, error)
	Describe() string
}

// FileSource reads a local .csv or .xlsx file. Workbooks use their first sheet.
type FileSource struct {
	Path string
}

func (s FileSource) Describe() string { return "file:" + s.Path }

func (s FileSource) Fetch(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(s.Path)
	default:
		f, err := os.Open(s.Path)
		if err != nil {
			return Table{}, fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	}
}

func readWorkbook(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("no header row")
	}
	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

// ReadCSV parses a CSV snapshot. Rows may have fewer or more cells than the
// header; empty lines are skipped and a leading UTF-8 BOM is dropped.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("no header row")
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read rows: %w", err)
		}
		rows = append(rows, rec)
	}
	return Table{Header: header, Rows: rows}, nil
}

