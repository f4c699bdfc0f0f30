package imports

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// TemplateSheetName is the single worksheet of the generated template.
const TemplateSheetName = "Students"

// Template builds a blank workbook whose header row is the canonical label
// of every field plus one example data row illustrating expected value
// shapes. Template output fed back through MapColumns resolves every
// column; fields.go enforces that invariant at startup.
func Template() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheetName); err != nil {
		return nil, errors.Wrap(err, "renaming template sheet")
	}

	headers := make([]interface{}, len(templateColumns))
	example := make([]interface{}, len(templateColumns))
	for i, col := range templateColumns {
		headers[i] = col.Label
		example[i] = col.Example
	}

	if err := f.SetSheetRow(TemplateSheetName, "A1", &headers); err != nil {
		return nil, errors.Wrap(err, "writing template headers")
	}
	if err := f.SetSheetRow(TemplateSheetName, "A2", &example); err != nil {
		return nil, errors.Wrap(err, "writing template example row")
	}
	return f, nil
}

// TemplateHeaders returns the canonical header labels, one per field, in
// template column order.
func TemplateHeaders() []string {
	headers := make([]string, len(templateColumns))
	for i, col := range templateColumns {
		headers[i] = col.Label
	}
	return headers
}
