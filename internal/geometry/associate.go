package geometry

// Unlabeled is assigned to a box when no text falls inside the search envelope.
const Unlabeled = "Unknown_Field"

// Edge selects which horizontal edge of an anchor the left search measures from.
type Edge int

const (
	// RightEdge measures from the anchor's right edge (word extents known).
	RightEdge Edge = iota
	// LeftEdge measures from the anchor's origin (only run origins known).
	LeftEdge
)

// Anchor is a piece of page text that may label a box. Coordinates share the
// box's space: Y is the reference height compared against the box's vertical
// centre (a word centre or a run baseline).
type Anchor struct {
	Text  string
	Left  float64
	Right float64
	Y     float64
}

// Envelope holds the thresholds of the label search. All bounds are exclusive.
type Envelope struct {
	// LeftReach is how far left of the box a label may start.
	LeftReach float64
	// LeftOverlap lets an anchor reach this far into the box and still count.
	LeftOverlap float64
	// RowTolerance bounds |anchor.Y - box.MidY()| for the left search.
	RowTolerance float64
	// MeasureFrom picks the anchor edge used for the left distance.
	MeasureFrom Edge

	// AboveReach bounds the gap between the box top and an anchor above it.
	// Zero disables the above fallback.
	AboveReach float64
	// AboveSlack widens the horizontal overlap test to the left of the box.
	AboveSlack float64
}

// Direction records which search produced a match.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionLeft  Direction = "left"
	DirectionAbove Direction = "above"
)

// Match is the outcome of a label search for one box.
type Match struct {
	Label     string
	Direction Direction
	// Distance is the signed distance of the winning anchor; zero when none.
	Distance float64
	// Anchor indexes the winning anchor, or -1.
	Anchor int
}

// Found reports whether any anchor qualified.
func (m Match) Found() bool { return m.Anchor >= 0 }

// Nearest searches anchors for the label of b. The left search runs first;
// the above search only runs when it found nothing. Within a search the
// minimum distance wins and equal distances keep the anchor seen first, so
// the result depends on anchor order and nothing else.
func Nearest(anchors []Anchor, b Box, env Envelope) Match {
	m := Match{Label: Unlabeled, Anchor: -1}

	best := env.LeftReach
	mid := b.MidY()
	for i, a := range anchors {
		dy := a.Y - mid
		if dy < 0 {
			dy = -dy
		}
		if dy >= env.RowTolerance {
			continue
		}
		ref := a.Right
		if env.MeasureFrom == LeftEdge {
			ref = a.Left
		}
		d := b.X0 - ref
		if d > -env.LeftOverlap && d < best {
			best = d
			m = Match{Label: a.Text, Direction: DirectionLeft, Distance: d, Anchor: i}
		}
	}
	if m.Found() || env.AboveReach <= 0 {
		return m
	}

	bestY := env.AboveReach
	for i, a := range anchors {
		if !(a.Left < b.X1 && a.Left+env.AboveSlack > b.X0) {
			continue
		}
		d := a.Y - b.Y1
		if d > 0 && d < bestY {
			bestY = d
			m = Match{Label: a.Text, Direction: DirectionAbove, Distance: d, Anchor: i}
		}
	}
	return m
}

// Candidate is a box with a caller-assigned identifier.
type Candidate struct {
	ID  string
	Box Box
}

// Associate labels every candidate independently. Boxes never compete for
// an anchor: two boxes may receive the same label.
func Associate(anchors []Anchor, candidates []Candidate, env Envelope) map[string]Match {
	out := make(map[string]Match, len(candidates))
	for _, c := range candidates {
		out[c.ID] = Nearest(anchors, c.Box, env)
	}
	return out
}
