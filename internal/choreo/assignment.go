package choreo

import (
	"fmt"
	"math"
	"math/bits"
)

// SolveAssignment maps each start position to an end position and returns one
// Assignment per dancer, in dancer order. AssignFixed keeps the identity
// mapping. AssignOptimal minimizes total travel distance with an exact
// bitmask DP up to DPAssignmentLimit dancers and a greedy nearest-unused
// heuristic beyond that. AssignHungarian is exact at any size.
//
// Input validation is the fail-fast boundary of the core: mismatched list
// lengths and non-finite coordinates are the only hard errors in a planning
// run (everything downstream degrades instead of failing).
func SolveAssignment(starts, ends []Position, mode AssignMode) ([]Assignment, error) {
	if len(starts) != len(ends) {
		return nil, fmt.Errorf("%w: %d starts, %d ends", ErrLengthMismatch, len(starts), len(ends))
	}
	if len(starts) == 0 {
		return nil, ErrNoDancers
	}
	for i, p := range starts {
		if !finitePosition(p) {
			return nil, fmt.Errorf("%w: start %d = (%v, %v)", ErrNonFiniteCoordinate, i, p.X, p.Y)
		}
	}
	for i, p := range ends {
		if !finitePosition(p) {
			return nil, fmt.Errorf("%w: end %d = (%v, %v)", ErrNonFiniteCoordinate, i, p.X, p.Y)
		}
	}

	var perm []int
	switch mode {
	case AssignFixed:
		perm = identityPermutation(len(starts))
	case AssignOptimal:
		if len(starts) <= DPAssignmentLimit {
			perm = assignExactDP(starts, ends)
		} else {
			perm = assignGreedy(starts, ends)
		}
	case AssignHungarian:
		perm = assignHungarian(starts, ends)
	default:
		return nil, fmt.Errorf("%w: unknown assign_mode %q", ErrInvalidConfig, mode)
	}

	out := make([]Assignment, len(starts))
	for i, j := range perm {
		out[i] = Assignment{
			DancerID: DancerID(i),
			Start:    starts[i],
			End:      ends[j],
			Distance: Distance(starts[i], ends[j]),
		}
	}
	return out, nil
}

// TotalAssignmentDistance sums the cached straight-line distances.
func TotalAssignmentDistance(assignments []Assignment) float64 {
	total := 0.0
	for i := range assignments {
		total += assignments[i].Distance
	}
	return total
}

func identityPermutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// assignExactDP solves the minimum-total-distance assignment with a bitmask
// dynamic program. dp[mask] is the minimum cost of assigning the first
// popcount(mask) dancers to exactly the end positions in mask; each
// transition tries every unused end column for the next dancer. The chosen
// permutation is recovered by walking parent masks backward.
func assignExactDP(starts, ends []Position) []int {
	n := len(starts)
	size := 1 << n

	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			cost[i][j] = Distance(starts[i], ends[j])
		}
	}

	dp := make([]float64, size)
	parent := make([]int, size) // end column chosen to reach this mask
	for m := 1; m < size; m++ {
		dp[m] = math.Inf(1)
		parent[m] = -1
	}

	for mask := 0; mask < size-1; mask++ {
		if math.IsInf(dp[mask], 1) {
			continue
		}
		dancer := bits.OnesCount(uint(mask))
		for j := 0; j < n; j++ {
			if mask&(1<<j) != 0 {
				continue
			}
			next := mask | 1<<j
			c := dp[mask] + cost[dancer][j]
			if c < dp[next] {
				dp[next] = c
				parent[next] = j
			}
		}
	}

	perm := make([]int, n)
	mask := size - 1
	for dancer := n - 1; dancer >= 0; dancer-- {
		j := parent[mask]
		perm[dancer] = j
		mask &^= 1 << j
	}
	return perm
}

// assignGreedy assigns each dancer the nearest unused end position, in input
// order. O(N²) and not optimal, but bounded for large casts where the exact
// DP's 2^N table is unaffordable.
func assignGreedy(starts, ends []Position) []int {
	n := len(starts)
	perm := make([]int, n)
	used := make([]bool, n)
	for i := 0; i < n; i++ {
		best := -1
		bestDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if used[j] {
				continue
			}
			if d := Distance(starts[i], ends[j]); d < bestDist {
				bestDist = d
				best = j
			}
		}
		perm[i] = best
		used[best] = true
	}
	return perm
}

// assignHungarian builds the start/end distance matrix and solves it with the
// Kuhn-Munkres solver. The matrix is square by construction, so every dancer
// receives a column.
func assignHungarian(starts, ends []Position) []int {
	n := len(starts)
	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			cost[i][j] = Distance(starts[i], ends[j])
		}
	}
	return hungarianSolve(cost)
}
