package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yiblet/omikuji/internal/codec"
	"github.com/yiblet/omikuji/internal/collections"
	"github.com/yiblet/omikuji/internal/draw"
	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/store/memstore"
	"github.com/yiblet/omikuji/internal/theme"
	"github.com/yiblet/omikuji/internal/tui"
)

func main() {
	fmt.Println("Testing TUI Pane Borders")
	fmt.Println("========================")

	store := memstore.NewMemoryStore()
	mgr := collections.NewManager(model.Seed(), codec.New(store))
	if _, err := mgr.CreateFromPreset("fortune"); err != nil {
		fmt.Printf("Error creating collection: %v\n", err)
		return
	}

	app := tui.New(tui.Options{
		Manager:   mgr,
		Store:     store,
		Theme:     theme.Dark,
		Scheduler: draw.ImmediateScheduler{},
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 20})

	// Draw once, then look at the Collections tab
	app.Update(tea.KeyMsg{Type: tea.KeySpace})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})

	view := app.View()
	lines := strings.Split(view, "\n")

	fmt.Printf("Rendered TUI view (%d lines):\n", len(lines))
	fmt.Println(strings.Repeat("=", 120))

	for i, line := range lines[:min(15, len(lines))] {
		fmt.Printf("Line %2d: %s\n", i, line)
	}

	fmt.Println(strings.Repeat("=", 120))

	// Both panes should show their left and right borders on one row
	var borderCheckLine string
	for i, line := range lines {
		if i > 2 && i < len(lines)-3 && strings.Count(line, "│") >= 4 {
			borderCheckLine = line
			break
		}
	}

	if borderCheckLine == "" {
		fmt.Println("Could not find a line with both panes' borders")
		return
	}

	var borderPositions []int
	col := 0
	for _, char := range borderCheckLine {
		if char == '│' {
			borderPositions = append(borderPositions, col)
		}
		col++
	}
	fmt.Printf("Found border characters (│) at columns: %v\n", borderPositions)
	fmt.Printf("Last draw: %s\n", mgr.History()[0].ResultText)
	fmt.Println("\nBorder verification complete!")
}
