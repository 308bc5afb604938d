package choreo

import "math"

// Artificial potential field. The goal is a paced attractive well; every
// other dancer projects a short-range repulsive field that falls off toward
// an influence radius. The velocity each step is the field gradient, capped
// by the integrator. When repulsion pushes squarely back against attraction
// the plain field has a local minimum and two symmetric dancers would stall
// nose to nose, so a clockwise swirl term bends both around the blockage in
// the same rotational sense.

const (
	potentialRepulseGain = 2.0
	potentialSwirlGain   = 1.0

	// potentialSwirlDot is the alignment threshold (cosine) below which
	// repulsion counts as opposing attraction and the swirl engages. Wider
	// than a strict head-on so the arc starts while there is still room.
	potentialSwirlDot = -0.7
)

func planPotentialField(assignments []Assignment, cfg Config, tr Trace) []DancerPath {
	return runSimulation("potential-field", assignments, cfg, tr, potentialSteer(cfg))
}

func potentialSteer(cfg Config) steerFunc {
	influence := clearanceRadius(cfg) * 2
	return func(i int, agents []simAgent, t float64) vec {
		me := &agents[i]
		toGoal := vecBetween(me.pos, me.assignment.End)
		dist := toGoal.length()
		if dist < degenerateChord {
			return vec{}
		}
		remaining := math.Max(cfg.TimeStep, cfg.TotalCounts-t)
		attract := toGoal.norm().scale(math.Min(cfg.MaxSpeed, dist/remaining))

		var repulse vec
		for j := range agents {
			if j == i {
				continue
			}
			away := vecBetween(agents[j].pos, me.pos)
			d := away.length()
			if d >= influence || d < degenerateChord {
				continue
			}
			mag := potentialRepulseGain * (1/d - 1/influence) / (d * d)
			repulse = repulse.add(away.norm().scale(mag))
		}

		total := attract.add(repulse)
		if repulse.length() > degenerateChord && attract.norm().dot(repulse.norm()) < potentialSwirlDot {
			swirl := repulse.norm().rotate(-math.Pi / 2).scale(potentialSwirlGain * attract.length())
			total = total.add(swirl)
		}
		return total
	}
}
