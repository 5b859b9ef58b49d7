package sim

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// MaxQuantile bounds NormalQuantile at p <= 0 and p >= 1.
const MaxQuantile = 100 * math.Sqrt2

// NormalQuantile returns z such that the standard normal CDF at z equals p.
// At the closed ends it returns -MaxQuantile (p <= 0) or +MaxQuantile (p >= 1)
// instead of an infinity, so Rb = 0 yields a small finite capacity. Callers
// must not rely on the exact sentinel.
func NormalQuantile(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return math.NaN()
	case p <= 0:
		return -MaxQuantile
	case p >= 1:
		return MaxQuantile
	}
	return distuv.UnitNormal.Quantile(p)
}
