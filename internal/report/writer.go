// Package report renders volatility reports as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/volwatch/go-volatility/internal/analyzer"
)

const hitsTableHeader = "+THRESHOLD | HITS | -THRESHOLD | HITS"

var hundred = decimal.NewFromInt(100)

// WriteText renders one report as a plain-text block: a headline, a price
// summary line, and a threshold table ordered widest band first. Threshold
// rows with no hits on either side are omitted; if no band was hit at all,
// the table is omitted entirely.
func WriteText(w io.Writer, r *analyzer.Report) error {
	headline := fmt.Sprintf("%s volatility information", r.Symbol)
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", headline, strings.Repeat("-", len(headline))); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Price: min: %s, max %s, avg: %s, change: %s%%\n\n",
		r.MinPrice.StringFixed(6),
		r.MaxPrice.StringFixed(6),
		r.AvgPrice.StringFixed(6),
		r.PctChange.StringFixed(2)); err != nil {
		return err
	}

	var table strings.Builder
	for _, h := range r.Hits {
		if h.High == 0 && h.Low == 0 {
			continue
		}
		pct := h.Threshold.Mul(hundred).StringFixed(2)
		fmt.Fprintf(&table, "+%8s%% | %4d | -%8s%% | %4d\n", pct, h.High, pct, h.Low)
	}

	if table.Len() == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n%s",
		hitsTableHeader,
		strings.Repeat("-", len(hitsTableHeader)),
		table.String()); err != nil {
		return err
	}
	return nil
}

// WriteJSON renders one report as indented JSON for programmatic use.
func WriteJSON(w io.Writer, r *analyzer.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
