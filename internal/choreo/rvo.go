package choreo

import "math"

// Reciprocal velocity obstacles. Each step every dancer computes a preferred
// velocity straight at its goal, paced to arrive as the window closes, then
// picks the sampled candidate closest to it whose reciprocal extrapolation
// stays clear of every neighbor. Head-on encounters widen the clearance and
// slow the approach so the pass happens early and wide.

// rvoTau is how far ahead (in counts) candidate velocities are extrapolated.
const rvoTau = 2.0

// rvoAngles is the candidate ring in radians. Positive (left) rotations come
// first so exact ties between mirrored candidates resolve to a left-hand
// pass for both parties, which sends the two dancers to opposite sides.
var rvoAngles = []float64{
	0,
	math.Pi / 12, -math.Pi / 12,
	math.Pi / 6, -math.Pi / 6,
	math.Pi / 4, -math.Pi / 4,
	math.Pi / 3, -math.Pi / 3,
	math.Pi / 2, -math.Pi / 2,
}

var rvoSpeedFactors = []float64{1, 0.7, 0.4}

func planRVO(assignments []Assignment, cfg Config, tr Trace) []DancerPath {
	return runSimulation("rvo", assignments, cfg, tr, rvoSteer(cfg))
}

func rvoSteer(cfg Config) steerFunc {
	baseClearance := clearanceRadius(cfg)
	return func(i int, agents []simAgent, t float64) vec {
		me := &agents[i]
		remaining := math.Max(cfg.TimeStep, cfg.TotalCounts-t)
		toGoal := vecBetween(me.pos, me.assignment.End)
		dist := toGoal.length()
		if dist < degenerateChord {
			return vec{}
		}
		prefSpeed := math.Min(cfg.MaxSpeed, dist/remaining)

		clearance := baseClearance
		for j := range agents {
			if j != i && oncoming(i, j, agents, baseClearance*4) {
				clearance = baseClearance * 1.6
				prefSpeed *= 0.7
				break
			}
		}

		pref := toGoal.norm().scale(prefSpeed)
		best := vec{}
		bestScore := math.Inf(1)
		for _, angle := range rvoAngles {
			dir := pref.rotate(angle)
			for _, f := range rvoSpeedFactors {
				cand := dir.scale(f)
				if rvoBlocked(i, agents, cand, clearance, cfg) {
					continue
				}
				if score := cand.sub(pref).length(); score < bestScore {
					best, bestScore = cand, score
				}
			}
		}
		if math.IsInf(bestScore, 1) {
			// Everything is blocked; creep forward and let the next steps
			// resolve the jam.
			return pref.scale(0.25)
		}
		return best
	}
}

// rvoBlocked extrapolates the candidate reciprocally (the agent moves to the
// average of its current and candidate velocity, neighbors hold theirs) and
// reports whether any neighbor comes inside the clearance within rvoTau.
func rvoBlocked(i int, agents []simAgent, cand vec, clearance float64, cfg Config) bool {
	me := &agents[i]
	testVel := me.vel.add(cand).scale(0.5)
	step := 2 * cfg.TimeStep
	for j := range agents {
		if j == i {
			continue
		}
		other := &agents[j]
		for s := step; s <= rvoTau+step/2; s += step {
			mine := Position{X: me.pos.X + testVel.X*s, Y: me.pos.Y + testVel.Y*s}
			theirs := Position{X: other.pos.X + other.vel.X*s, Y: other.pos.Y + other.vel.Y*s}
			if Distance(mine, theirs) < clearance {
				return true
			}
		}
	}
	return false
}
