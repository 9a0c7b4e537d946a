package indicator

// EMA calculates the Exponential Moving Average seeded with the first price.
// Returns slice of length len(prices) with alpha = 2/(window+1) and
// result[i] = alpha*prices[i] + (1-alpha)*result[i-1].
//
// The recurrence is strictly sequential; each output depends on the previous one.
func EMA(prices []float64, window int) ([]float64, error) {
	if err := validateWindow(prices, window); err != nil {
		return nil, err
	}

	result := make([]float64, len(prices))
	alpha := 2.0 / float64(window+1)

	result[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		result[i] = alpha*prices[i] + (1-alpha)*result[i-1]
	}

	return result, nil
}
