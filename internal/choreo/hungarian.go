package choreo

import "math"

// hungarianSolve implements the Kuhn-Munkres (Hungarian) algorithm for the
// square minimum-cost assignment problem in O(n³) time. It is the exact
// alternative to the bitmask DP for casts above DPAssignmentLimit, where the
// DP's 2^N table is unaffordable.
//
// cost[i][j] is the travel distance from start i to end j. The matrix is
// square and fully finite (SolveAssignment rejects non-finite coordinates
// before building it), so every row receives a column and the result is a
// complete permutation: perm[i] = j means dancer i walks to end j.
func hungarianSolve(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	// Kuhn-Munkres with potentials (Jonker-Volgenant variant).
	// 1-indexed arrays internally for cleaner index arithmetic; column 0 is
	// the virtual column that seeds each augmenting search.
	const inf = math.MaxFloat64 / 2

	u := make([]float64, n+1) // row potentials
	v := make([]float64, n+1) // column potentials
	p := make([]int, n+1)     // p[j] = row assigned to column j
	way := make([]int, n+1)   // way[j] = previous column in augmenting path
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0

		for j := 1; j <= n; j++ {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			if j1 < 0 {
				break
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Augment along the path.
		for j0 != 0 {
			p[j0] = p[way[j0]]
			j0 = way[j0]
		}
	}

	perm := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			perm[p[j]-1] = j - 1
		}
	}
	return perm
}
