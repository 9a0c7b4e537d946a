package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/newthinker/crossbt/internal/backtest"
)

var seriesHeader = []string{"index", "price", "fast", "slow", "signal", "position", "equity"}

// EncodeSeries writes the intermediate arrays of a result as CSV, one row per
// price index. Cells are left empty where a series is shorter than prices.
func EncodeSeries(res *backtest.Result) ([]byte, error) {
	n := len(res.Prices)
	for _, l := range []int{len(res.Fast), len(res.Slow), len(res.Signals), len(res.Positions), len(res.Equity)} {
		if l > n {
			n = l
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(seriesHeader); err != nil {
		return nil, err
	}

	row := make([]string, len(seriesHeader))
	for i := 0; i < n; i++ {
		row[0] = strconv.Itoa(i)
		row[1] = floatAt(res.Prices, i)
		row[2] = floatAt(res.Fast, i)
		row[3] = floatAt(res.Slow, i)
		row[4] = ""
		if i < len(res.Signals) {
			row[4] = string(res.Signals[i])
		}
		row[5] = ""
		if i < len(res.Positions) {
			row[5] = strconv.Itoa(int(res.Positions[i]))
		}
		row[6] = floatAt(res.Equity, i)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func floatAt(values []float64, i int) string {
	if i >= len(values) {
		return ""
	}
	return strconv.FormatFloat(values[i], 'g', -1, 64)
}
