package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"wanderlust/internal/ai"
	"wanderlust/internal/config"
	"wanderlust/internal/modules/itinerary"
	"wanderlust/internal/modules/preferences"
)

func main() {
	dest := flag.String("destination", "Kyoto, Japan", "trip destination")
	days := flag.Int("days", 3, "trip length in days (1-30)")
	interests := flag.String("interests", "temples, food, gardens", "comma separated interests")
	asJSON := flag.Bool("json", false, "print raw JSON instead of a summary")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	prefs, err := preferences.NewCollector().Validate(preferences.Form{
		Destination: *dest,
		Duration:    preferences.DurationValue(*days),
		Interests:   *interests,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AI.Timeout)
	defer cancel()

	llm, closeLLM, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer closeLLM()

	gen := itinerary.NewGenerator(llm, itinerary.Options{EnforceSchema: cfg.AI.EnforceSchema})
	it, err := gen.Generate(ctx, prefs)
	if err != nil {
		log.Fatalf("%s (%v)", itinerary.UserMessage, err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(it)
		return
	}

	fmt.Printf("%s (%s)\n", it.Destination, it.Currency)
	for _, day := range it.Days {
		fmt.Printf("\nDay %d: %s\n", day.DayNumber, day.Theme)
		for _, a := range day.Activities {
			fmt.Printf("  %-15s %s [%s]\n", a.TimeSlot, a.PlaceName, a.Cost)
			fmt.Printf("  %-15s %s\n", "", a.Description)
		}
	}
}
