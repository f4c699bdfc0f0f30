package imports

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoData indicates the file holds no header row or no data rows.
	ErrNoData = errors.New("file has no header or data rows")
	// ErrUnsupportedFile indicates the file is not a readable .xlsx or .csv.
	ErrUnsupportedFile = errors.New("unsupported file format; expected .xlsx or .csv")
)

// Sheet is raw tabular input: a header row and positionally aligned data
// rows. Only the first worksheet of a workbook is read; multi-sheet
// workbooks are out of scope.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// ReadSheet parses tabular data from r, dispatching on the file extension.
// Any failure here is fatal for the whole import: nothing has been
// submitted yet and the caller should fix the file and retry.
func ReadSheet(r io.Reader, filename string) (Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(r)
	case ".csv":
		return readCSV(r)
	default:
		return Sheet{}, ErrUnsupportedFile
	}
}

func readWorkbook(r io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, errors.Wrap(ErrUnsupportedFile, err.Error())
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Sheet{}, ErrNoData
	}

	// raw cell values keep date cells as day-count serials instead of
	// locale-formatted strings, which the date disambiguator handles
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, errors.Wrap(err, "reading worksheet")
	}
	return newSheet(rows)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(r io.Reader) (Sheet, error) {
	br := bufio.NewReader(r)
	// Excel exports CSVs with a UTF-8 byte order mark; left in place it
	// glues onto the first header cell and defeats header recognition.
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Sheet{}, errors.Wrap(ErrUnsupportedFile, err.Error())
	}
	return newSheet(rows)
}

func newSheet(rows [][]string) (Sheet, error) {
	if len(rows) < 2 {
		return Sheet{}, ErrNoData
	}
	return Sheet{Headers: rows[0], Rows: rows[1:]}, nil
}
