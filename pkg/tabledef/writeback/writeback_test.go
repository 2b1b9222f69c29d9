package writeback

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "USER_ID"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "USER_NAME"))

	path := filepath.Join(t.TempDir(), "defs.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func cellValue(t *testing.T, path, sheet, addr string) string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(sheet, addr)
	require.NoError(t, err)
	return v
}

func TestApply(t *testing.T) {
	path := newWorkbook(t)

	res, err := Apply(path, []Change{
		{SheetName: "Sheet1", Address: "B2", Before: "USER_ID", After: "ACCOUNT_ID"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)
	require.Empty(t, res.Issues)

	require.Equal(t, "ACCOUNT_ID", cellValue(t, path, "Sheet1", "B2"))
	// Untouched cells survive.
	require.Equal(t, "USER_NAME", cellValue(t, path, "Sheet1", "B3"))
}

func TestApplyIdempotent(t *testing.T) {
	path := newWorkbook(t)
	changes := []Change{
		{SheetName: "Sheet1", Address: "B2", Before: "USER_ID", After: "ACCOUNT_ID"},
	}

	res, err := Apply(path, changes)
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)

	// Retrying the same batch reports the change as applied, no issues.
	res, err = Apply(path, changes)
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)
	require.Empty(t, res.Issues)
	require.Equal(t, "ACCOUNT_ID", cellValue(t, path, "Sheet1", "B2"))
}

func TestApplyMismatch(t *testing.T) {
	path := newWorkbook(t)

	res, err := Apply(path, []Change{
		{SheetName: "Sheet1", Address: "B2", Before: "WRONG_VALUE", After: "ACCOUNT_ID"},
	})
	require.NoError(t, err)
	require.Zero(t, res.Applied)
	require.Len(t, res.Issues, 1)
	require.Contains(t, res.Issues[0].Reason, "mismatch")

	// Nothing was written.
	require.Equal(t, "USER_ID", cellValue(t, path, "Sheet1", "B2"))
}

func TestApplyPartial(t *testing.T) {
	path := newWorkbook(t)

	res, err := Apply(path, []Change{
		{SheetName: "Sheet1", Address: "B2", Before: "USER_ID", After: "ACCOUNT_ID"},
		{SheetName: "NoSuchSheet", Address: "A1", Before: "x", After: "y"},
		{SheetName: "Sheet1", Address: "not-an-address", Before: "x", After: "y"},
		{SheetName: "Sheet1", Address: "B3", Before: "STALE", After: "FULL_NAME"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Applied)
	require.Len(t, res.Issues, 3)

	require.Equal(t, "ACCOUNT_ID", cellValue(t, path, "Sheet1", "B2"))
	require.Equal(t, "USER_NAME", cellValue(t, path, "Sheet1", "B3"))
}

func TestApplyMissingFile(t *testing.T) {
	_, err := Apply(filepath.Join(t.TempDir(), "absent.xlsx"), nil)
	require.Error(t, err)
}
