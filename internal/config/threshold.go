package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseThreshold accepts a whole or decimal percent, with an optional "%"
// suffix, between 0 and 100. An empty value yields the default.
func parseThreshold(raw string) (float64, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	if raw == "" {
		return DefaultCoverageThreshold, nil
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid coverage threshold %q", raw)
	}
	if threshold < 0 || threshold > 100 {
		return 0, errors.Errorf("coverage threshold %v is outside 0-100", threshold)
	}
	return threshold, nil
}
