// Package utilization derives usage percentages and qualitative bands.
package utilization

// Band annotates a utilization percentage. It has no control-flow effect.
type Band string

const (
	UnderUtilized Band = "under-utilized"
	Acceptable    Band = "acceptable"
	High          Band = "high"
)

const (
	cpuLowThreshold    = 30.0
	memoryLowThreshold = 40.0
	highThreshold      = 80.0
)

// Percent returns usage as a percentage of denominator, or exactly 0 when the
// denominator is not positive.
func Percent(usage, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return usage / denominator * 100
}

// CPUBand classifies a CPU utilization percentage.
func CPUBand(pct float64) Band {
	return band(pct, cpuLowThreshold)
}

// MemoryBand classifies a memory utilization percentage.
func MemoryBand(pct float64) Band {
	return band(pct, memoryLowThreshold)
}

func band(pct, low float64) Band {
	switch {
	case pct < low:
		return UnderUtilized
	case pct > highThreshold:
		return High
	default:
		return Acceptable
	}
}
