package market

import (
	"fmt"
	"strconv"
	"strings"
)

// TenorToYears converts tenor strings like "1W", "3M", "10Y" to year fractions.
// Bare numbers are read as years.
func TenorToYears(tenor string) (float64, error) {
	tenor = strings.TrimSpace(strings.ToUpper(tenor))
	if tenor == "" {
		return 0, fmt.Errorf("empty tenor")
	}

	unit := tenor[len(tenor)-1]
	body := tenor[:len(tenor)-1]
	switch unit {
	case 'D', 'W', 'M', 'Y':
		v, err := strconv.Atoi(body)
		if err != nil {
			return 0, fmt.Errorf("invalid tenor %q: %w", tenor, err)
		}
		switch unit {
		case 'D':
			return float64(v) / 365.0, nil
		case 'W':
			return float64(v) * 7.0 / 365.0, nil
		case 'M':
			return float64(v) / 12.0, nil
		default:
			return float64(v), nil
		}
	}

	v, err := strconv.ParseFloat(tenor, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tenor %q: %w", tenor, err)
	}
	return v, nil
}
