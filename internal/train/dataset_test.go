package train

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/model"
)

func TestReadRows(t *testing.T) {
	t.Run("parses well-formed rows", func(t *testing.T) {
		csv := `merchant,description,amount,date,category
STARBUCKS,coffee run,-4.50,2024-03-15,Dining
SHELL,gas fill up,-42.10,2024-03-16,Transport
`
		rows, err := ReadRows(strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "STARBUCKS", rows[0].Merchant)
		assert.Equal(t, "coffee run", rows[0].Description)
		assert.Equal(t, -4.50, rows[0].Amount)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rows[0].Date)
		assert.Equal(t, "Dining", rows[0].Category)
	})

	t.Run("missing merchant and description default to empty", func(t *testing.T) {
		csv := `merchant,description,amount,date,category
,,12.00,2024-01-01,Misc
`
		rows, err := ReadRows(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Empty(t, rows[0].Merchant)
		assert.Empty(t, rows[0].Description)
	})

	t.Run("missing category defaults to Uncategorized", func(t *testing.T) {
		csv := `merchant,description,amount,date,category
ACME,widgets,10.00,2024-01-01,
`
		rows, err := ReadRows(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, model.Uncategorized, rows[0].Category)
	})

	t.Run("missing required column is fatal", func(t *testing.T) {
		csv := `merchant,description,date,category
ACME,widgets,2024-01-01,Misc
`
		_, err := ReadRows(strings.NewReader(csv))
		assert.ErrorIs(t, err, common.ErrMissingColumn)
	})

	t.Run("missing amount is fatal", func(t *testing.T) {
		csv := `merchant,description,amount,date,category
ACME,widgets,,2024-01-01,Misc
`
		_, err := ReadRows(strings.NewReader(csv))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "amount")
	})

	t.Run("unparseable amount is fatal", func(t *testing.T) {
		csv := `merchant,description,amount,date,category
ACME,widgets,twelve,2024-01-01,Misc
`
		_, err := ReadRows(strings.NewReader(csv))
		assert.Error(t, err)
	})

	t.Run("unparseable date falls back to sentinel", func(t *testing.T) {
		csv := `merchant,description,amount,date,category
ACME,widgets,10.00,not-a-date,Misc
`
		rows, err := ReadRows(strings.NewReader(csv))
		require.NoError(t, err)
		assert.True(t, rows[0].Date.IsZero())
	})

	t.Run("header-only file is an empty dataset", func(t *testing.T) {
		csv := "merchant,description,amount,date,category\n"
		_, err := ReadRows(strings.NewReader(csv))
		assert.ErrorIs(t, err, common.ErrEmptyDataset)
	})

	t.Run("case-insensitive header", func(t *testing.T) {
		csv := `Merchant,Description,Amount,Date,Category
ACME,widgets,10.00,2024-01-01,Misc
`
		rows, err := ReadRows(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}

func TestLoadCSV(t *testing.T) {
	t.Run("missing file is fatal", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("reads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.csv")
		content := "merchant,description,amount,date,category\nUBER,ride,-17.30,2024-02-02,Transport\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		rows, err := LoadCSV(path)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}
