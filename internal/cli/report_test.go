package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spendlens/spendlens/internal/model"
)

func TestRenderClassifications(t *testing.T) {
	entries := []model.Classification{
		{
			Transaction: model.Transaction{
				Merchant: "STARBUCKS",
				Amount:   -4.50,
			},
			Category:     "Dining",
			Status:       model.StatusPredicted,
			Confidence:   0.93,
			ClassifiedAt: time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC),
		},
		{
			Transaction: model.Transaction{
				Description: "unknown vendor",
				Amount:      -17.00,
			},
			Category:     model.Uncategorized,
			Status:       model.StatusAbstained,
			Confidence:   0.41,
			ClassifiedAt: time.Date(2024, 6, 2, 18, 0, 0, 0, time.UTC),
		},
	}

	out := RenderClassifications(entries)

	assert.Contains(t, out, "STARBUCKS")
	assert.Contains(t, out, "Dining")
	assert.Contains(t, out, "0.93")
	assert.Contains(t, out, "2024-06-03 09:15")

	// A merchant-less entry falls back to its description.
	assert.Contains(t, out, "unknown vendor")
	assert.Contains(t, out, model.Uncategorized)
	assert.Contains(t, out, string(model.StatusAbstained))
	assert.Contains(t, out, "0.41")
}
