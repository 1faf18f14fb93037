package train

import "fmt"

// ClassMetrics holds per-class evaluation results on the held-out split.
type ClassMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes held-out evaluation: per-class precision/recall/F1
// plus the macro-averaged F1 (unweighted mean over classes with held-out
// support).
type Report struct {
	Classes []ClassMetrics
	MacroF1 float64
}

// Evaluate computes the classification report from true and predicted
// label indices over the given class names.
func Evaluate(yTrue, yPred []int, classes []string) (*Report, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("got %d true labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, fmt.Errorf("cannot evaluate on empty held-out set")
	}

	k := len(classes)
	tp := make([]int, k)
	fp := make([]int, k)
	fn := make([]int, k)
	support := make([]int, k)

	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t >= k {
			return nil, fmt.Errorf("true label index %d out of range [0,%d)", t, k)
		}
		if p < 0 || p >= k {
			return nil, fmt.Errorf("predicted label index %d out of range [0,%d)", p, k)
		}
		support[t]++
		if t == p {
			tp[t]++
		} else {
			fn[t]++
			fp[p]++
		}
	}

	report := &Report{Classes: make([]ClassMetrics, 0, k)}
	var f1Sum float64
	var scored int
	for c := 0; c < k; c++ {
		m := ClassMetrics{Label: classes[c], Support: support[c]}
		if tp[c]+fp[c] > 0 {
			m.Precision = float64(tp[c]) / float64(tp[c]+fp[c])
		}
		if tp[c]+fn[c] > 0 {
			m.Recall = float64(tp[c]) / float64(tp[c]+fn[c])
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes = append(report.Classes, m)

		// Classes absent from the held-out set and never predicted carry no
		// signal and are excluded from the macro average.
		if support[c] > 0 || fp[c] > 0 {
			f1Sum += m.F1
			scored++
		}
	}
	if scored > 0 {
		report.MacroF1 = f1Sum / float64(scored)
	}

	return report, nil
}
