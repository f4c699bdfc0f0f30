package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zawadi/shule/core/imports"
)

// importStudents runs a spreadsheet through the bulk import pipeline and
// prints the outcome to stdout.
func (cli *commandLine) importStudents(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	importer := imports.NewImporter(cli.studentSvc)
	outcome, err := importer.Import(context.Background(), f, filepath.Base(path))
	if err != nil {
		return err
	}

	fmt.Printf("Rows processed: %d\n", outcome.TotalRows)
	fmt.Printf("Skipped: %d\n", outcome.Skipped)
	fmt.Printf("Submitted: %d\n", outcome.Submitted)
	fmt.Printf("Created: %d\n", len(outcome.Success))
	fmt.Printf("Rejected: %d\n", len(outcome.Failed))
	for _, fail := range outcome.Failed {
		fmt.Printf("  - row %d", fail.Row)
		if fail.AdmissionNo != "" {
			fmt.Printf(" (%s)", fail.AdmissionNo)
		}
		fmt.Printf(": %s\n", fail.Error)
	}
	for _, diag := range outcome.Diagnostics {
		fmt.Printf("  ~ %s\n", diag.Message)
	}
	return nil
}
