// Package importer parses uploaded cut lists into required parts.
// It supports CSV (automatic delimiter detection, flexible column mapping,
// case-insensitive headers), Excel workbooks, and the plain-text format
// where the first line is the raw stock length and each following line is
// one part length with an optional quantity.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/beamcut/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Parts []model.RequiredPart
	// RawLength is the stock length carried by the file itself (plain-text
	// format only); 0 when the file does not specify one.
	RawLength float64
	Errors    []string
	Warnings  []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Length   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"length":   {"length", "len", "l", "size", "part length", "element", "element length", "dlugosc"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces", "ilosc"},
}

// DetectDelimiter reads the file content and determines the most likely CSV
// delimiter. It tries comma, semicolon, tab, and pipe; the delimiter that
// produces the most consistent column count across lines wins.
func DetectDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases. Returns the
// mapping and true if a header was detected, or the positional mapping
// (length, quantity) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Length: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					switch role {
					case "length":
						if mapping.Length == -1 {
							mapping.Length = i
						}
					case "quantity":
						if mapping.Quantity == -1 {
							mapping.Quantity = i
						}
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Length: 0, Quantity: 1}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a RequiredPart from a row using the given column mapping.
// A missing quantity cell defaults to 1. Returns the part and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.RequiredPart, string) {
	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.RequiredPart{}, fmt.Sprintf("%s: missing length value", rowLabel)
	}
	length, err := strconv.ParseFloat(lengthStr, 64)
	if err != nil {
		return model.RequiredPart{}, fmt.Sprintf("%s: invalid length '%s'", rowLabel, lengthStr)
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return model.RequiredPart{}, fmt.Sprintf("%s: invalid quantity '%s'", rowLabel, qtyStr)
		}
	}

	if length <= 0 || qty <= 0 {
		return model.RequiredPart{}, fmt.Sprintf("%s: length and quantity must be positive", rowLabel)
	}

	return model.RequiredPart{Length: length, Quantity: qty}, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports parts from CSV data. It automatically detects the
// delimiter and maps columns by header names.
func ImportCSV(data []byte) ImportResult {
	result := ImportResult{}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	delimiter := DetectDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "file is empty")
		return result
	}

	return importFromRows(records, "line", result.Warnings)
}

// ImportExcel imports parts from an Excel (.xlsx) workbook. It reads the
// first sheet and auto-detects the column mapping from headers.
func ImportExcel(r io.Reader) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenReader(r)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "sheet is empty")
		return result
	}

	return importFromRows(rows, "row", nil)
}

// ImportText imports the plain upload format: first line is the raw stock
// length, each following line one part length, optionally "length;quantity".
func ImportText(data []byte) ImportResult {
	result := ImportResult{}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	var content []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			content = append(content, strings.TrimSpace(line))
		}
	}
	if len(content) < 2 {
		result.Errors = append(result.Errors, "file must contain a raw length line and at least one part line")
		return result
	}

	rawLength, err := strconv.ParseFloat(content[0], 64)
	if err != nil || rawLength <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("line 1: invalid raw stock length '%s'", content[0]))
		return result
	}
	result.RawLength = rawLength

	for i, line := range content[1:] {
		rowLabel := fmt.Sprintf("line %d", i+2)
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ';' || r == ',' })
		part, errMsg := parseRow(fields, ColumnMapping{Length: 0, Quantity: 1}, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Parts = append(result.Parts, part)
	}

	return result
}

// ImportFile dispatches on the file extension: .xlsx to the Excel importer,
// .csv to the CSV importer, anything else to the plain-text importer.
func ImportFile(name string, data []byte) ImportResult {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(bytes.NewReader(data))
	case ".csv":
		return ImportCSV(data)
	default:
		return ImportText(data)
	}
}

// importFromRows is the shared import logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "detected header row, skipping")
		if mapping.Length == -1 {
			result.Errors = append(result.Errors, "required column not found in header: length")
			return result
		}
	} else if len(rows[0]) >= 1 {
		// No recognized header: if the first cell is not numeric, treat the
		// row as an unknown header and keep the positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		part, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Parts = append(result.Parts, part)
	}

	return result
}
