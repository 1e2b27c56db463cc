// Package draw picks results from collections: a uniform list draw for
// omikuji and cards collections, a six-sided roll for dice collections.
package draw

import (
	"errors"
	"math/rand/v2"
	"strconv"

	"github.com/yiblet/omikuji/internal/model"
)

// ErrEmptyCollection is returned when a list draw has nothing to pick from.
var ErrEmptyCollection = errors.New("collection is empty")

// DiceFaces is the number of faces on the rolled die.
const DiceFaces = 6

// Source yields uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Result is the outcome of one draw: either a ListDraw or a DiceRoll.
type Result interface {
	// Text is the result as shown to the user and recorded in history.
	Text() string
	isResult()
}

// ListDraw is an item picked from a collection.
type ListDraw struct {
	Index int
	Item  model.Item
}

func (r ListDraw) Text() string { return r.Item.Content }
func (ListDraw) isResult()      {}

// DiceRoll is a face value in 1..DiceFaces.
type DiceRoll struct {
	Face int
}

func (r DiceRoll) Text() string { return strconv.Itoa(r.Face) }
func (DiceRoll) isResult()      {}

// Engine performs draws. It holds no state between calls.
type Engine struct {
	rng Source
}

// NewEngine creates an engine backed by the process-wide random source.
func NewEngine() *Engine {
	return &Engine{rng: globalSource{}}
}

// NewEngineWithSource creates an engine with an injected source, e.g. a
// seeded *rand.Rand in tests.
func NewEngineWithSource(src Source) *Engine {
	if src == nil {
		src = globalSource{}
	}
	return &Engine{rng: src}
}

// Draw produces one result for the collection according to its mode.
// Dice collections ignore their items entirely.
func (e *Engine) Draw(c *model.Collection) (Result, error) {
	if c == nil {
		return nil, ErrEmptyCollection
	}
	switch c.Mode.OrDefault() {
	case model.ModeDice:
		return DiceRoll{Face: e.rng.IntN(DiceFaces) + 1}, nil
	default:
		if len(c.Items) == 0 {
			return nil, ErrEmptyCollection
		}
		i := e.rng.IntN(len(c.Items))
		return ListDraw{Index: i, Item: c.Items[i]}, nil
	}
}

// Title is the heading shown above a result for the given mode.
func Title(mode model.Mode) string {
	switch mode.OrDefault() {
	case model.ModeDice:
		return "Dice Result"
	case model.ModeCards:
		return "Card Drawn"
	default:
		return "Omikuji Result"
	}
}
