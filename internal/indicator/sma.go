package indicator

// SMA calculates the trailing Simple Moving Average without padding.
// Returns slice of length: len(prices) - window + 1, where result[j] is the
// mean of prices[j : j+window].
func SMA(prices []float64, window int) ([]float64, error) {
	if err := validateWindow(prices, window); err != nil {
		return nil, err
	}

	result := make([]float64, 0, len(prices)-window+1)
	w := float64(window)

	var sum float64
	for i := 0; i < window; i++ {
		sum += prices[i]
	}
	result = append(result, sum/w)

	// Rolling calculation
	for i := window; i < len(prices); i++ {
		sum = sum - prices[i-window] + prices[i]
		result = append(result, sum/w)
	}

	return result, nil
}
