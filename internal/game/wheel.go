package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

const (
	fullTurn = 360.0
	// The wheel keeps turning forward between spins, so every spin adds a few
	// whole revolutions before landing on the offset angle.
	minExtraTurns = 4
	maxExtraTurns = 7
)

// SpinResult describes where a spin landed. Rotation is the wheel's new
// cumulative rotation; the winning segment is re-derivable from it alone.
type SpinResult struct {
	Rotation float64
	Index    int
	Category string
}

// Wheel maps a random rotation onto one of a fixed ordered list of category
// segments. Segments are indexed clockwise starting at the top pointer.
type Wheel struct {
	categories []string
	rotation   float64
	spinning   bool
	rnd        *rand.Rand
}

func NewWheel(categories []string) *Wheel {
	return NewWheelWithRand(categories, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWheelWithRand allows deterministic spins in tests.
func NewWheelWithRand(categories []string, rnd *rand.Rand) *Wheel {
	return &Wheel{categories: categories, rnd: rnd}
}

// Spin advances the cumulative rotation by a random amount and returns the
// winning segment. A spin while one is in flight is rejected; call Settle
// once the result has been consumed.
func (w *Wheel) Spin() (SpinResult, error) {
	if w.spinning {
		return SpinResult{}, domain.ErrSpinInProgress
	}
	turns := minExtraTurns + w.rnd.Intn(maxExtraTurns-minExtraTurns+1)
	offset := w.rnd.Float64() * fullTurn
	w.rotation += float64(turns)*fullTurn + offset
	w.spinning = true

	idx := LandingIndex(w.rotation, len(w.categories))
	return SpinResult{
		Rotation: w.rotation,
		Index:    idx,
		Category: w.categories[idx],
	}, nil
}

// Settle marks the in-flight spin as consumed, allowing the next one.
func (w *Wheel) Settle() {
	w.spinning = false
}

func (w *Wheel) Spinning() bool {
	return w.spinning
}

// Rotation returns the cumulative rotation in degrees.
func (w *Wheel) Rotation() float64 {
	return w.rotation
}

func (w *Wheel) Categories() []string {
	return w.categories
}

// LandingIndex computes which of n equal segments sits under the top pointer
// after rotating the wheel by the given cumulative degrees. Segments are drawn
// starting at the top, hence the 90 degree correction for the angle origin.
func LandingIndex(rotation float64, n int) int {
	segment := fullTurn / float64(n)
	normalized := mod360(fullTurn - mod360(rotation) + 90)
	idx := int(math.Floor(normalized / segment))
	if idx >= n {
		idx = 0
	}
	return idx
}

func mod360(deg float64) float64 {
	m := math.Mod(deg, fullTurn)
	if m < 0 {
		m += fullTurn
	}
	return m
}
