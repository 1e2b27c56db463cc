package tui

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/yiblet/omikuji/internal/draw"
)

const (
	stickMaxGraphemes  = 8
	stickKeepGraphemes = 6
	emptyLabel         = "Empty"
)

// StickLabel is the short text printed on the drawn stick. Results longer
// than eight graphemes keep the first six followed by "..".
func StickLabel(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyLabel
	}
	if uniseg.GraphemeClusterCount(text) <= stickMaxGraphemes {
		return text
	}

	var b strings.Builder
	state := -1
	var cluster string
	remaining := text
	for n := 0; n < stickKeepGraphemes && len(remaining) > 0; n++ {
		cluster, remaining, _, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		b.WriteString(cluster)
	}
	return b.String() + ".."
}

// ResultLabel is the stick label for a draw result.
func ResultLabel(r draw.Result) string {
	if r == nil {
		return ""
	}
	if roll, ok := r.(draw.DiceRoll); ok {
		return dieFace(roll.Face)
	}
	return StickLabel(r.Text())
}

// DisplayText renders item or result text for a single line.
func DisplayText(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyLabel
	}
	return strings.Join(strings.Fields(text), " ")
}

var dieFaces = []string{"⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

func dieFace(face int) string {
	if face < 1 || face > len(dieFaces) {
		return "?"
	}
	return dieFaces[face-1] + " " + strconv.Itoa(face)
}

// truncateWidth cuts s to at most width terminal cells, appending "..."
// when something was dropped.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}

	var b strings.Builder
	used := 0
	state := -1
	var cluster string
	var w int
	remaining := s
	for len(remaining) > 0 {
		cluster, remaining, w, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		if used+w > width-3 {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	return b.String() + "..."
}
