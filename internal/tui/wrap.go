package tui

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// WrapText wraps text to fit within a given width in terminal cells,
// breaking on word boundaries when possible. It handles newlines in the
// input and returns a slice of lines that fit within maxWidth.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{}
	}

	var result []string
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if len(line) == 0 {
			result = append(result, "")
			continue
		}

		// If line fits, keep it as is
		if uniseg.StringWidth(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		result = append(result, wrapLine(line, maxWidth)...)
	}

	return result
}

// wrapLine wraps a single line that is too long, breaking on word boundaries when possible
func wrapLine(line string, maxWidth int) []string {
	var result []string
	var currentLine strings.Builder
	currentWidth := 0

	for _, word := range splitWords(line) {
		wordWidth := uniseg.StringWidth(word)

		// If word itself is longer than maxWidth, break it between graphemes
		if wordWidth > maxWidth {
			if currentWidth > 0 {
				result = append(result, currentLine.String())
				currentLine.Reset()
				currentWidth = 0
			}
			chunks := splitByWidth(word, maxWidth)
			result = append(result, chunks[:len(chunks)-1]...)
			last := chunks[len(chunks)-1]
			currentLine.WriteString(last)
			currentWidth = uniseg.StringWidth(last)
			continue
		}

		spaceNeeded := wordWidth
		if currentWidth > 0 {
			spaceNeeded++ // for the space before the word
		}

		if currentWidth+spaceNeeded > maxWidth {
			result = append(result, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
			currentWidth = wordWidth
		} else {
			if currentWidth > 0 {
				currentLine.WriteString(" ")
				currentWidth++
			}
			currentLine.WriteString(word)
			currentWidth += wordWidth
		}
	}

	if currentWidth > 0 {
		result = append(result, currentLine.String())
	}

	return result
}

// splitByWidth cuts s into chunks of at most width cells without
// splitting a grapheme cluster.
func splitByWidth(s string, width int) []string {
	var chunks []string
	var current strings.Builder
	used := 0

	state := -1
	var cluster string
	var w int
	remaining := s
	for len(remaining) > 0 {
		cluster, remaining, w, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		if used > 0 && used+w > width {
			chunks = append(chunks, current.String())
			current.Reset()
			used = 0
		}
		current.WriteString(cluster)
		used += w
	}
	if current.Len() > 0 || len(chunks) == 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitWords splits text into words on whitespace
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsSpace(r) {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		} else {
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}
