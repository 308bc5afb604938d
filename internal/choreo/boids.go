package choreo

import "math"

// Flocking-style steering. Each dancer seeks its goal at a pace that lands
// on the final count, while separation pushes it off anyone inside its
// protected range and gentler alignment and cohesion terms keep group motion
// coherent. A fixed right-hand bias resolves head-on passes; without it two
// mirrored dancers push straight into each other and stall.

const (
	boidsAvoidFactor     = 1.8
	boidsMatchingFactor  = 0.25
	boidsCenteringFactor = 0.05
	boidsSlowRadius      = 1.5
	boidsPassBias        = 0.8
)

func planBoids(assignments []Assignment, cfg Config, tr Trace) []DancerPath {
	return runSimulation("boids", assignments, cfg, tr, boidsSteer(cfg))
}

func boidsSteer(cfg Config) steerFunc {
	protected := clearanceRadius(cfg) * 1.3
	visual := clearanceRadius(cfg) * 3
	return func(i int, agents []simAgent, t float64) vec {
		me := &agents[i]
		toGoal := vecBetween(me.pos, me.assignment.End)
		dist := toGoal.length()
		if dist < degenerateChord {
			return vec{}
		}
		remaining := math.Max(cfg.TimeStep, cfg.TotalCounts-t)

		// Pace the approach to settle as the window closes, easing off
		// inside the slow radius so capture is gentle.
		desired := math.Min(cfg.MaxSpeed, dist/remaining)
		if dist < boidsSlowRadius {
			desired = math.Min(desired, cfg.MaxSpeed*dist/boidsSlowRadius)
		}
		vel := toGoal.norm().scale(desired)

		var closeSum, velSum, posSum vec
		neighbors := 0.0
		for j := range agents {
			if j == i {
				continue
			}
			other := &agents[j]
			away := vecBetween(other.pos, me.pos)
			d := away.length()
			if d < protected && d > degenerateChord {
				closeSum = closeSum.add(away.scale(1 / (d * d)))
			}
			if d < visual {
				velSum = velSum.add(other.vel)
				posSum = posSum.add(vec{X: other.pos.X, Y: other.pos.Y})
				neighbors++
			}
		}

		vel = vel.add(closeSum.scale(boidsAvoidFactor))
		if neighbors > 0 {
			avgVel := velSum.scale(1 / neighbors)
			vel = vel.add(avgVel.sub(me.vel).scale(boidsMatchingFactor))
			centroid := posSum.scale(1 / neighbors)
			vel = vel.add(centroid.sub(vec{X: me.pos.X, Y: me.pos.Y}).scale(boidsCenteringFactor))
		}

		for j := range agents {
			if j != i && oncoming(i, j, agents, visual) {
				right := toGoal.norm().rotate(-math.Pi / 2)
				vel = vel.add(right.scale(boidsPassBias))
				break
			}
		}
		return vel
	}
}
