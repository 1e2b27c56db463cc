// Package presets is the built-in catalog of ready-made item lists.
package presets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yiblet/omikuji/internal/model"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named template for a collection.
type Preset struct {
	Name        string
	Title       string
	Description string
	Mode        model.Mode
	Items       []string
}

var catalog = map[string]Preset{
	"fortune": {
		Name:        "fortune",
		Title:       "Fortune",
		Description: "Traditional omikuji ranks",
		Mode:        model.ModeOmikuji,
		Items: []string{
			"Great Blessing", "Middle Blessing", "Small Blessing", "Blessing",
			"Half Blessing", "Future Blessing", "Curse", "Great Curse",
		},
	},
	"restaurant": {
		Name:        "restaurant",
		Title:       "Restaurant",
		Description: "Where to eat tonight",
		Mode:        model.ModeOmikuji,
		Items: []string{
			"Pizza", "Sushi", "Burger", "Pasta", "Salad",
			"Chinese", "Tacos", "Steak", "Ramen", "Curry",
		},
	},
	"yesno": {
		Name:        "yesno",
		Title:       "Yes / No",
		Description: "A straight answer",
		Mode:        model.ModeOmikuji,
		Items:       []string{"Yes", "No", "Maybe", "Ask again later"},
	},
	"deck": {
		Name:        "deck",
		Title:       "Playing Cards",
		Description: "A standard 52-card deck",
		Mode:        model.ModeCards,
		Items:       deck(),
	},
	"weekday": {
		Name:        "weekday",
		Title:       "Weekday",
		Description: "Pick a day of the week",
		Mode:        model.ModeOmikuji,
		Items:       []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	},
}

func deck() []string {
	suits := []string{"Spades", "Hearts", "Diamonds", "Clubs"}
	ranks := []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	cards := make([]string, 0, len(suits)*len(ranks))
	for _, s := range suits {
		for _, r := range ranks {
			cards = append(cards, r+" of "+s)
		}
	}
	return cards
}

// Names returns every preset name, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every preset in name order.
func All() []Preset {
	out := make([]Preset, 0, len(catalog))
	for _, name := range Names() {
		p, _ := Get(name)
		out = append(out, p)
	}
	return out
}

// Get looks up a preset by name, case-insensitively. The returned item
// slice is a copy.
func Get(name string) (Preset, error) {
	p, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	p.Items = append([]string(nil), p.Items...)
	return p, nil
}
