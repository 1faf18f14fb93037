package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/service"
	"github.com/spendlens/spendlens/internal/train"
)

// RenderReport formats a held-out evaluation report as a table with the
// macro-F1 summary line.
func RenderReport(report *train.Report) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Held-out evaluation"))
	sb.WriteString("\n")

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		BoldStyle.Render("Category"),
		BoldStyle.Render("Precision"),
		BoldStyle.Render("Recall"),
		BoldStyle.Render("F1"),
		BoldStyle.Render("Support"))
	for _, c := range report.Classes {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%d\n",
			c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	_ = w.Flush()

	sb.WriteString("\n")
	sb.WriteString(BoldStyle.Render(fmt.Sprintf("F1-macro: %.4f", report.MacroF1)))
	sb.WriteString("\n")
	return sb.String()
}

// RenderStatus formats an engine status snapshot.
func RenderStatus(st service.Status) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Model status"))
	sb.WriteString("\n")

	if st.Loaded {
		sb.WriteString(FormatSuccess("model loaded"))
	} else {
		sb.WriteString(FormatWarning("no model loaded"))
	}
	sb.WriteString("\n")

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "threshold\t%.2f\n", st.Threshold)
	if st.Loaded {
		fmt.Fprintf(w, "trained at\t%s\n", st.TrainedAt.Format("2006-01-02 15:04:05 MST"))
		for k, v := range st.Metrics {
			fmt.Fprintf(w, "%s\t%.4f\n", k, v)
		}
	}
	_ = w.Flush()

	return sb.String()
}

// RenderClassifications formats audit log entries as a table, in the order
// given.
func RenderClassifications(entries []model.Classification) string {
	var sb strings.Builder

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		BoldStyle.Render("Classified"),
		BoldStyle.Render("Merchant"),
		BoldStyle.Render("Amount"),
		BoldStyle.Render("Category"),
		BoldStyle.Render("Status"),
		BoldStyle.Render("Confidence"))

	for _, c := range entries {
		name := c.Transaction.Merchant
		if name == "" {
			name = c.Transaction.Description
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%.2f\n",
			c.ClassifiedAt.Format("2006-01-02 15:04"),
			name,
			c.Transaction.Amount,
			c.Category,
			string(c.Status),
			c.Confidence)
	}
	_ = w.Flush()

	return sb.String()
}
