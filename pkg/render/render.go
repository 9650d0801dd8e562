// Package render formats query outcomes and model metadata for the
// terminal: a query echo, the response or error, response metrics, and the
// model's characteristics table.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/modellens/modellens/pkg/adapter"
	"github.com/modellens/modellens/pkg/catalog"
)

// Renderer writes formatted summaries to an output stream.
type Renderer struct {
	out io.Writer
}

// New creates a Renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Summary renders the outcome of one query: the response text with metrics
// when genErr is nil, the error otherwise, and the model characteristics
// table in both cases.
func (r *Renderer) Summary(query string, model catalog.Descriptor, res *adapter.Result, genErr error) {
	rule := ruleStyle.Render(strings.Repeat("=", ruleWidth))

	fmt.Fprintf(r.out, "\n%s\n", rule)
	fmt.Fprintf(r.out, "%s %s\n", queryStyle.Render("Query:"), query)
	fmt.Fprintln(r.out, rule)

	if genErr != nil {
		fmt.Fprintf(r.out, "\n%s %s\n", errorStyle.Render("Error:"), genErr.Error())
		if adapter.IsTransient(genErr) {
			fmt.Fprintln(r.out, dimStyle.Render("This looks transient; running the query again may succeed."))
		}
	} else {
		fmt.Fprintf(r.out, "\n%s\n", responseStyle.Render("Response:"))
		fmt.Fprintln(r.out, res.Text)
		r.metrics(model, res)
	}

	r.characteristics(model)

	fmt.Fprintf(r.out, "\n%s\n", rule)
}

func (r *Renderer) metrics(model catalog.Descriptor, res *adapter.Result) {
	fmt.Fprintf(r.out, "\n%s\n", metricsStyle.Render("Response Metrics:"))

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	fmt.Fprintf(w, "Tokens Used\t%s\n", formatTokens(res.Usage))
	fmt.Fprintf(w, "Response Time\t%.2fs\n", res.Elapsed.Seconds())
	fmt.Fprintf(w, "Context Window\t%d tokens\n", model.ContextWindow)
	if cost, ok := adapter.EstimateCost(model, res.Usage); ok {
		fmt.Fprintf(w, "Estimated Cost\t$%.6f\n", cost.Amount)
	}
	w.Flush()
}

func (r *Renderer) characteristics(model catalog.Descriptor) {
	fmt.Fprintf(r.out, "\n%s\n", modelStyle.Render("Model Characteristics:"))

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHARACTERISTIC\tDETAILS")
	fmt.Fprintf(w, "Model Name\t%s\n", model.Name)
	fmt.Fprintf(w, "Provider\t%s\n", model.Provider.Display())
	fmt.Fprintf(w, "Type\t%s\n", model.Type.Display())
	fmt.Fprintf(w, "Description\t%s\n", model.Characteristics.Description)
	fmt.Fprintf(w, "Fine-tuning Strategy\t%s\n", model.Characteristics.FineTuningStrategy)
	fmt.Fprintf(w, "Instruction Following\t%s\n", model.Characteristics.InstructionFollowing)
	fmt.Fprintf(w, "Use Cases\t%s\n", model.Characteristics.UseCases)
	w.Flush()
}

func formatTokens(u adapter.Usage) string {
	if u.Estimated {
		return fmt.Sprintf("%d (estimated)", u.TotalTokens)
	}
	return fmt.Sprintf("%d", u.TotalTokens)
}
