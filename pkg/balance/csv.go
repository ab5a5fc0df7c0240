package balance

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Balance sheet column headers. Header matching is case-insensitive and
// tolerant of surrounding whitespace. Only "id" is mandatory.
const (
	colID       = "id"
	colName     = "name"
	colType     = "type"
	colCategory = "categories"
	colPrereqs  = "prerequisites"
	colCost     = "cost"
	colValue    = "value"
	colSeconds  = "seconds"
)

// listSeparator splits multi-value cells (categories, prerequisites).
const listSeparator = ";"

// ReadCSV decodes a balance sheet from r into items.
//
// The first record is the header row. Columns may appear in any order;
// unknown columns are ignored so design spreadsheets can carry extra
// annotation columns. Rows with an empty id cell are skipped. Multi-value
// cells use ";" as separator:
//
//	id,name,type,categories,prerequisites,cost,value,seconds
//	wheat,Wheat,crop,farm,,10,3,60
//	bread,Bread,recipe,farm;kitchen,wheat,50,12,120
//
// sourceFile is recorded on every item and later drives lane assignment.
// ReadCSV does not close r.
func ReadCSV(r io.Reader, sourceFile string) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows tolerated; missing cells default
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols[colID]; !ok {
		return nil, fmt.Errorf("%s: missing required column %q", sourceFile, colID)
	}

	var items []Item
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", sourceFile, line, err)
		}

		id := cell(record, cols, colID)
		if id == "" {
			continue
		}

		it := Item{
			ID:            id,
			Name:          cell(record, cols, colName),
			Type:          cell(record, cols, colType),
			Categories:    cellList(record, cols, colCategory),
			Prerequisites: cellList(record, cols, colPrereqs),
			SourceFile:    sourceFile,
		}
		if it.Name == "" {
			it.Name = id
		}

		if it.Cost, err = cellFloat(record, cols, colCost); err != nil {
			return nil, fmt.Errorf("%s:%d: column %s: %w", sourceFile, line, colCost, err)
		}
		if it.Value, err = cellFloat(record, cols, colValue); err != nil {
			return nil, fmt.Errorf("%s:%d: column %s: %w", sourceFile, line, colValue, err)
		}
		if it.Seconds, err = cellFloat(record, cols, colSeconds); err != nil {
			return nil, fmt.Errorf("%s:%d: column %s: %w", sourceFile, line, colSeconds, err)
		}

		items = append(items, it)
	}

	return items, nil
}

// LoadCSV reads a balance sheet file and returns the decoded items.
// The file's base name is recorded as each item's SourceFile.
func LoadCSV(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, filepath.Base(path))
}

// LoadDir loads every *.csv file in dir into a single collection.
// Files are processed in lexical order so the resulting collection order
// is stable. Duplicate ids across files are an error.
func LoadDir(dir string) (*Collection, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}

	c := NewCollection()
	for _, path := range matches {
		items, err := LoadCSV(path)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if err := c.Add(it); err != nil {
				return nil, fmt.Errorf("%s: item %s: %w", filepath.Base(path), it.ID, err)
			}
		}
	}
	return c, nil
}

func cell(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func cellList(record []string, cols map[string]int, name string) []string {
	raw := cell(record, cols, name)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cellFloat(record []string, cols map[string]int, name string) (float64, error) {
	raw := cell(record, cols, name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	return v, nil
}
