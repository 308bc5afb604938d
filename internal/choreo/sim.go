package choreo

import "math"

// Shared integrator for the agent-simulation strategies (rvo, boids,
// potential-field). All dancers advance together in fixed time steps; each
// strategy supplies only the steering rule. Updates are synchronous: every
// velocity for a step is computed from the previous step's state, so agent
// order never influences the outcome.

// vec is a 2D vector in stage units.
type vec struct {
	X, Y float64
}

func (v vec) add(w vec) vec       { return vec{v.X + w.X, v.Y + w.Y} }
func (v vec) sub(w vec) vec       { return vec{v.X - w.X, v.Y - w.Y} }
func (v vec) scale(s float64) vec { return vec{v.X * s, v.Y * s} }
func (v vec) dot(w vec) float64   { return v.X*w.X + v.Y*w.Y }
func (v vec) length() float64     { return math.Hypot(v.X, v.Y) }

func (v vec) norm() vec {
	l := v.length()
	if l < degenerateChord {
		return vec{}
	}
	return v.scale(1 / l)
}

// clampLength caps the vector's magnitude at max.
func (v vec) clampLength(max float64) vec {
	l := v.length()
	if l <= max || l < degenerateChord {
		return v
	}
	return v.scale(max / l)
}

// rotate returns v rotated by angle radians, counter-clockwise positive.
func (v vec) rotate(angle float64) vec {
	sin, cos := math.Sincos(angle)
	return vec{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

func vecBetween(from, to Position) vec {
	return vec{X: to.X - from.X, Y: to.Y - from.Y}
}

// simAgent is one dancer's live state during a simulation run.
type simAgent struct {
	assignment Assignment
	pos        Position
	vel        vec
	arrived    bool
	trail      []PathPoint
}

// steerFunc returns the velocity agent i should adopt for the step starting
// at time t, reading but never mutating the shared agent state.
type steerFunc func(i int, agents []simAgent, t float64) vec

// runSimulation integrates all agents to the horizon. Agents capture their
// goal once within half a grid cell and hold it; stragglers within a grid
// cell at the horizon snap on, anything further short is reported and left
// where it stopped for the validation report to judge.
func runSimulation(stage string, assignments []Assignment, cfg Config, tr Trace, steer steerFunc) []DancerPath {
	agents := make([]simAgent, len(assignments))
	for i, a := range assignments {
		agents[i] = simAgent{assignment: a, pos: a.Start}
		if a.Distance < degenerateChord {
			agents[i].arrived = true
			agents[i].trail = StationaryPath(a.Start, 0, cfg.TotalCounts)
			continue
		}
		agents[i].trail = []PathPoint{{X: a.Start.X, Y: a.Start.Y, T: 0}}
	}

	captureTol := cfg.GridResolution / 2
	steps := int(math.Ceil(cfg.TotalCounts / cfg.TimeStep))
	for s := 0; s < steps; s++ {
		tNow := float64(s) * cfg.TimeStep
		tNext := math.Min(cfg.TotalCounts, tNow+cfg.TimeStep)
		dt := tNext - tNow
		if dt <= 0 {
			break
		}

		vels := make([]vec, len(agents))
		for i := range agents {
			if agents[i].arrived {
				continue
			}
			vels[i] = steer(i, agents, tNow).clampLength(cfg.MaxSpeed)
		}

		for i := range agents {
			ag := &agents[i]
			if ag.arrived {
				continue
			}
			ag.vel = vels[i]
			ag.pos = clampToStage(Position{
				X: ag.pos.X + vels[i].X*dt,
				Y: ag.pos.Y + vels[i].Y*dt,
			}, cfg.StageWidth, cfg.StageHeight)
			if Distance(ag.pos, ag.assignment.End) <= captureTol {
				ag.pos = ag.assignment.End
				ag.arrived = true
				ag.vel = vec{}
			}
			ag.trail = append(ag.trail, PathPoint{X: ag.pos.X, Y: ag.pos.Y, T: tNext})
		}
	}

	out := make([]DancerPath, len(agents))
	for i := range agents {
		ag := &agents[i]
		if !ag.arrived {
			gap := Distance(ag.pos, ag.assignment.End)
			if gap <= cfg.GridResolution {
				end := ag.assignment.End
				ag.trail = append(ag.trail, PathPoint{X: end.X, Y: end.Y, T: cfg.TotalCounts})
			} else {
				tr.Eventf(stage, "%s stopped %.2f units short of its goal", ag.assignment.DancerID, gap)
			}
		}
		out[i] = NewDancerPath(ag.assignment.DancerID, ag.trail)
	}
	return out
}

// oncoming reports whether agent j is heading nearly opposite to agent i's
// goal direction within the given range, the setup for a head-on pass.
func oncoming(i, j int, agents []simAgent, rangeLimit float64) bool {
	me, other := &agents[i], &agents[j]
	sep := vecBetween(me.pos, other.pos)
	if sep.length() > rangeLimit {
		return false
	}
	myDir := vecBetween(me.pos, me.assignment.End).norm()
	otherDir := vecBetween(other.pos, other.assignment.End).norm()
	if myDir.length() < 0.5 || otherDir.length() < 0.5 {
		return false
	}
	// Opposite travel directions and the other agent is in front of us.
	return myDir.dot(otherDir) < -0.8 && myDir.dot(sep.norm()) > 0.5
}
