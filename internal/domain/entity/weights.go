package entity

import "math"

const (
	// MinWeight is the floor for every row size and pane weight.
	MinWeight = 0.1
	// UnitWeight is the average pane weight inside a normalized row.
	UnitWeight = 1.0
	// DefaultRowTotal is the summed size of all rows in a fresh layout.
	DefaultRowTotal = 1.0

	weightEpsilon = 1e-9
)

// WeightsEqual reports whether two weights are equal within floating-point tolerance.
func WeightsEqual(a, b float64) bool {
	return math.Abs(a-b) <= weightEpsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// ClampWeight limits v to [minVal, maxVal].
func ClampWeight(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// DistributeWeights scales weights so they sum to target while keeping every
// entry at or above floor. Entries that would fall under the floor are pinned
// to it and the remainder is shared proportionally among the others.
// When target cannot hold len(weights) floors, every entry is set to floor.
func DistributeWeights(weights []float64, target, floor float64) []float64 {
	n := len(weights)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if target < float64(n)*floor {
		for i := range out {
			out[i] = floor
		}
		return out
	}
	if alreadyDistributed(weights, target, floor) {
		copy(out, weights)
		return out
	}

	pinned := make([]bool, n)
	for {
		free := target
		freeSum := 0.0
		freeCount := 0
		for i, w := range weights {
			if pinned[i] {
				free -= floor
				continue
			}
			freeSum += usableWeight(w)
			freeCount++
		}
		if freeCount == 0 {
			for i := range out {
				out[i] = floor
			}
			return out
		}

		changed := false
		for i, w := range weights {
			if pinned[i] {
				out[i] = floor
				continue
			}
			var v float64
			if freeSum > 0 {
				v = usableWeight(w) / freeSum * free
			} else {
				v = free / float64(freeCount)
			}
			if v < floor {
				pinned[i] = true
				changed = true
			}
			out[i] = v
		}
		if !changed {
			return out
		}
	}
}

func alreadyDistributed(weights []float64, target, floor float64) bool {
	sum := 0.0
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < floor-weightEpsilon {
			return false
		}
		sum += w
	}
	return WeightsEqual(sum, target)
}

func usableWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0
	}
	return w
}

func sumWeights(weights []float64) float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	return total
}
