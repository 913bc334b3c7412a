package tasterist

import (
	"errors"
	"fmt"
)

// ErrSourceFolderMissing indicates the configured import root does not exist.
var ErrSourceFolderMissing = errors.New("source folder not found")

// ErrNoWorkbooks indicates no readable candidate workbook was found when
// files were expected. Raised before any destructive replace-mode clear.
var ErrNoWorkbooks = errors.New("no readable workbook files found")

// SheetError wraps a failure local to one sheet of one workbook. Sheets are
// independent; callers log these and continue.
type SheetError struct {
	Book  string
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q in %q: %v", e.Sheet, e.Book, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
