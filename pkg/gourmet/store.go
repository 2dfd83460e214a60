package gourmet

import "context"

// Store is the table store boundary: whole-sheet read, whole-sheet
// overwrite and single-row append. The sheet offers nothing finer, so
// neither does this interface.
type Store interface {
	// ReadAll returns the sheet's contents including the header row.
	ReadAll(ctx context.Context) ([][]interface{}, error)

	// Overwrite clears the sheet and writes header + data rows. Two calls
	// under the hood; callers must treat it as non-atomic on failure.
	Overwrite(ctx context.Context, values [][]interface{}) error

	// AppendRow appends one canonically ordered row below existing data.
	AppendRow(ctx context.Context, row []interface{}) error
}
