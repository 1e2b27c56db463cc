package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/yiblet/omikuji/internal/collections"
	"github.com/yiblet/omikuji/internal/draw"
	"github.com/yiblet/omikuji/internal/haptics"
	"github.com/yiblet/omikuji/internal/migrate"
	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/store/memstore"
)

func main() {
	fmt.Println("omikuji Demo")

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Start from the oldest storage layout: a flat list under the legacy key
	store := memstore.NewMemoryStoreWith(map[string]string{
		migrate.FlatKey: `[{"id":1,"content":"Great Blessing"},{"id":2,"content":"Small Blessing"},{"id":3,"content":"Curse"}]`,
	})
	defer store.Close()

	engine := migrate.NewEngine(store, logger)
	state, report, err := engine.Load()
	if err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}
	fmt.Printf("Loaded %q layout from %q (persisted: %v)\n\n", report.Schema, report.Key, report.Persisted)

	mgr := collections.NewManager(state, engine.Codec(), collections.WithLogger(logger))

	// Add a dice collection next to the migrated default
	dice, err := mgr.AddCollection("Board Game")
	if err != nil {
		log.Fatalf("Failed to add collection: %v", err)
	}
	if err := mgr.SetMode(dice.ID, model.ModeDice); err != nil {
		log.Fatalf("Failed to set mode: %v", err)
	}
	if _, err := mgr.CreateFromPreset("yesno"); err != nil {
		log.Fatalf("Failed to create preset collection: %v", err)
	}

	fmt.Println("Collections:")
	for _, c := range mgr.Collections() {
		fmt.Printf("  %-44s %-12s %-8s %d items\n", c.ID, c.Name, c.Mode, len(c.Items))
	}
	fmt.Println()

	// Walk each collection through a full draw sequence
	rec := &haptics.Recorder{}
	seq := draw.NewSequencer(draw.ImmediateScheduler{}, draw.DefaultTiming(), draw.Hooks{
		OnShake: func() { fmt.Println("  shaking...") },
		OnReveal: func(r draw.Result) {
			fmt.Printf("  %s\n", r.Text())
		},
		OnError: func(err error) { fmt.Printf("  error: %v\n", err) },
	}, rec)

	for _, c := range mgr.Collections() {
		fmt.Printf("%s (%s):\n", c.Name, draw.Title(c.Mode))
		if err := mgr.Select(c.ID); err != nil {
			log.Fatalf("Failed to select: %v", err)
		}
		seq.Trigger(mgr.Draw)
	}
	fmt.Printf("\nHaptic pulses (ms): %v\n\n", rec.Pulses())

	fmt.Println("History (newest first):")
	for i, h := range mgr.History() {
		fmt.Printf("%d. [%s] %-12s %s\n", i, h.Timestamp, h.CollectionName, h.ResultText)
	}
}
