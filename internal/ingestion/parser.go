package ingestion

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/paystats/reporter/internal/domain"
)

const (
	ColumnUserID  = "user_id"
	ColumnCountry = "country"

	// Delimiter of the country mapping upload.
	Delimiter = ';'

	// maxRowErrors bounds how many row problems a ParseError carries.
	maxRowErrors = 20
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CheckFilename rejects uploads whose name does not end in ".csv".
func CheckFilename(name string) error {
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".csv") {
		return domain.NewValidationError("countries_file", "file %q must have a .csv extension", name)
	}
	return nil
}

// Parse decodes a semicolon-delimited user-to-country mapping.
//
// Expected header (extra columns are ignored, order is free):
//
//	user_id;country
//
// Every row must carry an integer user_id and a non-empty country. Country
// labels are kept exactly as written. Either all rows are returned or none.
func Parse(data []byte) ([]domain.CountryRow, error) {
	if !utf8.Valid(data) {
		return nil, &domain.ParseError{Reason: "payload is not valid UTF-8 text"}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = Delimiter

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &domain.ParseError{Reason: "payload is empty"}
	}
	if err != nil {
		return nil, &domain.ParseError{Reason: fmt.Sprintf("read header: %v", err)}
	}

	col, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []domain.CountryRow
	var rowErrs []domain.RowError
	note := func(e domain.RowError) {
		if len(rowErrs) < maxRowErrors {
			rowErrs = append(rowErrs, e)
		}
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				note(domain.RowError{Line: perr.StartLine, Message: fmt.Sprintf("expected %d fields, got %d", len(header), len(rec))})
				continue
			}
			return nil, &domain.ParseError{Reason: err.Error()}
		}
		line, _ := reader.FieldPos(0)

		rawID := strings.TrimSpace(rec[col[ColumnUserID]])
		country := rec[col[ColumnCountry]]

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			note(domain.RowError{Line: line, Column: ColumnUserID, Message: fmt.Sprintf("%q is not an integer", rawID)})
			continue
		}
		if country == "" {
			note(domain.RowError{Line: line, Column: ColumnCountry, Message: "value is required"})
			continue
		}

		rows = append(rows, domain.CountryRow{Line: line, UserID: userID, Country: country})
	}

	if len(rowErrs) > 0 {
		return nil, &domain.ParseError{Reason: "invalid rows", Rows: rowErrs}
	}
	return rows, nil
}

// indexHeader maps column names to positions and checks required columns.
func indexHeader(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := col[name]; dup {
			return nil, &domain.ParseError{Reason: fmt.Sprintf("duplicate column %q in header", name)}
		}
		col[name] = i
	}

	var missing []string
	for _, req := range []string{ColumnUserID, ColumnCountry} {
		if _, ok := col[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, domain.NewValidationError("countries_file",
			"missing required CSV columns: %s", strings.Join(missing, ", "))
	}
	return col, nil
}
