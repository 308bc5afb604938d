package scenario

import (
	"fmt"
	"math"

	"github.com/wldnjs95/choreoflow/internal/choreo"
)

// Formation geometry for the builtin suite, sized for the default stage.
const (
	stageW = choreo.DefaultStageWidth
	stageH = choreo.DefaultStageHeight

	sideMargin = 2.0
	circleR    = 3.5
)

// Builtin returns the standard scenario suite. The set covers the conflict
// patterns that separate the planning strategies: symmetric head-on swaps,
// a formation collapse into a wedge, rotation along a shared circle, column
// exchange through a shared corridor, and a hold that must not move anyone.
func Builtin() []Scenario {
	return []Scenario{
		HeadOnSwap(2),
		LineToV(5),
		CircleRotate(6, 3),
		ColumnPass(3),
		Stationary(4),
	}
}

// ByName finds a builtin scenario by name.
func ByName(name string) (*Scenario, error) {
	for _, s := range Builtin() {
		if s.Name == name {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("no builtin scenario named %q", name)
}

// Names lists the builtin scenario names in suite order.
func Names() []string {
	builtin := Builtin()
	names := make([]string, len(builtin))
	for i, s := range builtin {
		names[i] = s.Name
	}
	return names
}

// HeadOnSwap places pairs of dancers on opposite stage edges at matching
// heights, each swapping with their partner. Every pair meets head-on at
// center stage.
func HeadOnSwap(pairs int) Scenario {
	starts := make([]choreo.Position, 0, 2*pairs)
	ends := make([]choreo.Position, 0, 2*pairs)
	for k := 0; k < pairs; k++ {
		y := stageH * float64(k+1) / float64(pairs+1)
		left := choreo.Position{X: sideMargin, Y: y}
		right := choreo.Position{X: stageW - sideMargin, Y: y}
		starts = append(starts, left, right)
		ends = append(ends, right, left)
	}
	return Scenario{
		Name:        "head-on-swap",
		Description: fmt.Sprintf("%d pairs swap sides along shared lines", pairs),
		Starts:      starts,
		Ends:        ends,
	}
}

// LineToV collapses an upstage line into a downstage wedge with the apex at
// center. Inner dancers travel the least, so naive timing bunches the cast
// near the apex.
func LineToV(n int) Scenario {
	starts := make([]choreo.Position, n)
	ends := make([]choreo.Position, n)
	mid := float64(n-1) / 2
	for i := 0; i < n; i++ {
		x := sideMargin + (stageW-2*sideMargin)*float64(i)/float64(n-1)
		starts[i] = choreo.Position{X: x, Y: stageH * 0.75}
		off := float64(i) - mid
		ends[i] = choreo.Position{
			X: stageW/2 + 1.2*off,
			Y: stageH*0.25 + 0.9*math.Abs(off),
		}
	}
	return Scenario{
		Name:        "line-to-v",
		Description: fmt.Sprintf("line of %d collapses into a downstage wedge", n),
		Starts:      starts,
		Ends:        ends,
	}
}

// CircleRotate spaces n dancers around a circle and advances each by steps
// positions. Every chord crosses the circle interior, so all paths share
// the center region.
func CircleRotate(n, steps int) Scenario {
	center := choreo.Position{X: stageW / 2, Y: stageH / 2}
	at := func(i int) choreo.Position {
		a := 2 * math.Pi * float64(i) / float64(n)
		return choreo.Position{X: center.X + circleR*math.Cos(a), Y: center.Y + circleR*math.Sin(a)}
	}
	starts := make([]choreo.Position, n)
	ends := make([]choreo.Position, n)
	for i := 0; i < n; i++ {
		starts[i] = at(i)
		ends[i] = at(i + steps)
	}
	return Scenario{
		Name:        "circle-rotate",
		Description: fmt.Sprintf("%d dancers advance %d positions around a circle", n, steps),
		Starts:      starts,
		Ends:        ends,
	}
}

// ColumnPass builds two facing columns that exchange sides row by row,
// forcing every row through the same corridor at once.
func ColumnPass(rows int) Scenario {
	leftX := stageW/2 - 1.5
	rightX := stageW/2 + 1.5
	starts := make([]choreo.Position, 0, 2*rows)
	ends := make([]choreo.Position, 0, 2*rows)
	for k := 0; k < rows; k++ {
		y := stageH * float64(k+1) / float64(rows+1)
		starts = append(starts,
			choreo.Position{X: leftX, Y: y},
			choreo.Position{X: rightX, Y: y})
		ends = append(ends,
			choreo.Position{X: rightX, Y: y},
			choreo.Position{X: leftX, Y: y})
	}
	return Scenario{
		Name:        "column-pass",
		Description: fmt.Sprintf("two columns of %d exchange sides through a shared corridor", rows),
		Starts:      starts,
		Ends:        ends,
	}
}

// Stationary holds a line formation in place. Planners must keep everyone
// parked rather than inventing motion.
func Stationary(n int) Scenario {
	positions := make([]choreo.Position, n)
	for i := 0; i < n; i++ {
		x := sideMargin + (stageW-2*sideMargin)*float64(i)/float64(n-1)
		positions[i] = choreo.Position{X: x, Y: stageH / 2}
	}
	ends := make([]choreo.Position, n)
	copy(ends, positions)
	return Scenario{
		Name:        "stationary",
		Description: fmt.Sprintf("line of %d holds its formation", n),
		Starts:      positions,
		Ends:        ends,
	}
}
