package feature

import (
	"time"

	"github.com/spendlens/spendlens/internal/model"
)

// MetaWidth is the number of dense metadata features appended after the
// text vector: amount, weekday, month.
const MetaWidth = 3

// MetaFeatures derives the dense metadata features for a transaction:
// the raw amount, the weekday (Monday=0) and the calendar month (1..12).
// A zero date yields the 0,0 sentinel pair for weekday and month.
func MetaFeatures(amount float64, date time.Time) [MetaWidth]float64 {
	var weekday, month float64
	if !date.IsZero() {
		// time.Weekday counts Sunday=0; shift to Monday=0.
		weekday = float64((int(date.Weekday()) + 6) % 7)
		month = float64(date.Month())
	}
	return [MetaWidth]float64{amount, weekday, month}
}

// Build constructs the full feature vector for a transaction: the tf-idf
// text vector over the fitted vocabulary, followed by the three dense
// metadata features, in that fixed order. Training and serving both call
// this routine; the concatenation order and the no-date sentinel must never
// diverge between the two.
func Build(v *Vectorizer, txn model.Transaction) []float64 {
	text := v.Transform(BuildText(txn.Merchant, txn.Description))
	meta := MetaFeatures(txn.Amount, txn.Date)

	vec := make([]float64, 0, len(text)+MetaWidth)
	vec = append(vec, text...)
	vec = append(vec, meta[:]...)
	return vec
}

// Width returns the feature vector width produced by Build for the given
// fitted vectorizer.
func Width(v *Vectorizer) int {
	return v.NumTerms() + MetaWidth
}
