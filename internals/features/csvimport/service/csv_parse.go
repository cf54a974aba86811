package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	studentService "gestionabsence_backend/internals/features/academics/students/service"
)

var (
	ErrEmptyFile = errors.New("Fichier CSV vide")
	ErrBadCSV    = errors.New("Fichier CSV invalide")
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// DetectSeparator picks ';' when the first line has more semicolons than commas.
func DetectSeparator(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// ReadRecords decodes a CSV upload, dropping the BOM, blank lines and a leading
// header row (first cell not numeric).
func ReadRecords(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, bom)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	rd := csv.NewReader(bytes.NewReader(data))
	rd.Comma = DetectSeparator(data)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	var out [][]string
	first := true
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Join(ErrBadCSV, err)
		}
		for i := range rec {
			rec[i] = clean(rec[i])
		}
		if len(rec) == 0 || (len(rec) == 1 && rec[0] == "") {
			continue
		}
		if first {
			first = false
			if !isNumeric(rec[0]) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// ParseStudents maps records to rows "student_number, last_name, first_name".
// Rows without a number or a last name are counted as skipped.
func ParseStudents(records [][]string) (rows []studentService.StudentRow, skipped int) {
	for _, rec := range records {
		if len(rec) < 2 || rec[0] == "" || rec[1] == "" {
			skipped++
			continue
		}
		row := studentService.StudentRow{StudentNumber: rec[0], LastName: rec[1]}
		if len(rec) > 2 {
			row.FirstName = rec[2]
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// ParseNumbers returns the distinct student numbers of the first column, in file order.
func ParseNumbers(records [][]string) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 || rec[0] == "" {
			continue
		}
		if _, ok := seen[rec[0]]; ok {
			continue
		}
		seen[rec[0]] = struct{}{}
		out = append(out, rec[0])
	}
	return out
}
