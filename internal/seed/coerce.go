package seed

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// The coercions below are permissive: anything that does not parse is
// reported as absent, and the caller decides whether the row survives.

func (p Properties) String(key string) *string {
	switch v := p[key].(type) {
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		return &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s
	default:
		return nil
	}
}

func (p Properties) Float(key string, logger *slog.Logger) *float64 {
	switch v := p[key].(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			logger.Debug("Dropping non-numeric value", "field", key, "value", v)
			return nil
		}
		return &f
	default:
		return nil
	}
}

func (p Properties) Int(key string, logger *slog.Logger) *int {
	f := p.Float(key, logger)
	if f == nil {
		return nil
	}
	if *f != math.Trunc(*f) || *f > math.MaxInt32 || *f < math.MinInt32 {
		logger.Debug("Dropping non-integer value", "field", key, "value", *f)
		return nil
	}
	i := int(*f)
	return &i
}
