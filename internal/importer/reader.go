package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
)

// Sheet is a decoded CSV file: its header and data rows.
type Sheet struct {
	Encoding string
	Header   []string
	Rows     []Row
}

type decoder struct {
	name   string
	decode func([]byte) (string, error)
}

// decoders are tried in order; the first one that decodes without error wins.
var decoders = []decoder{
	{name: "utf-8", decode: decodeUTF8},
	{name: "windows-1250", decode: decodeCharmap(charmap.Windows1250, false)},
	{name: "iso-8859-2", decode: decodeCharmap(charmap.ISO8859_2, true)},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("invalid utf-8 byte sequence")
	}
	return string(data), nil
}

// decodeCharmap decodes byte by byte and fails on code points the table
// leaves undefined. With c1 set, 0x80-0x9F pass through as the C1 control
// characters U+0080-U+009F, which makes the decoder total.
func decodeCharmap(cm *charmap.Charmap, c1 bool) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		var b strings.Builder
		b.Grow(len(data))
		for i, c := range data {
			if c1 && c >= 0x80 && c <= 0x9F {
				b.WriteRune(rune(c))
				continue
			}
			r := cm.DecodeByte(c)
			if r == utf8.RuneError {
				return "", fmt.Errorf("byte 0x%02X at offset %d not valid in %s", c, i, cm.String())
			}
			b.WriteRune(r)
		}
		return b.String(), nil
	}
}

// Read decodes and parses a CSV upload. A header row is required.
//
// Decode failures move on to the next encoding. Input that no encoding
// accepts is rejected with ErrEncodingExhausted; undecoded bytes are never
// passed on.
func Read(data []byte) (*Sheet, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.ErrEmptyCSV
	}

	for _, d := range decoders {
		text, err := d.decode(data)
		if err != nil {
			continue
		}
		sheet, err := parse(text)
		if err != nil {
			return nil, err
		}
		sheet.Encoding = d.name
		return sheet, nil
	}

	return nil, apperrors.ErrEncodingExhausted
}

func parse(text string) (*Sheet, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, apperrors.ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	nonBlank := false
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] != "" {
			nonBlank = true
		}
	}
	if !nonBlank {
		return nil, apperrors.ErrMissingHeader
	}

	sheet := &Sheet{Header: header, Rows: []Row{}}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV record: %w", err)
		}
		if blankRecord(record) {
			continue
		}

		row := make(Row, len(header))
		for i, h := range header {
			if h == "" || i >= len(record) {
				continue
			}
			row[h] = record[i]
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than
// commas. Polish spreadsheet exports use ';' because ',' is the decimal mark.
func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
