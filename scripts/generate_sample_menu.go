//go:build ignore

// Writes two gzipped JSON-lines menu files for local development:
//
//	go run scripts/generate_sample_menu.go
//	MENU_SEED_PATHS=data/menu/base.jsonl.gz,data/menu/autumn.jsonl.gz go run ./cmd/menu-import
//
// autumn.jsonl.gz overrides the loaf price from base and hides the stollen.
package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"bakery-storefront/internal/catalog"
)

func boolPtr(b bool) *bool { return &b }

func main() {
	dataDir := "data/menu"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	menus := map[string][]catalog.Entry{
		"base.jsonl.gz": {
			{ID: "croissant", Name: "Butter Croissant", Description: "Laminated dough, all butter", Price: 375},
			{ID: "pain-au-chocolat", Name: "Pain au Chocolat", Description: "Two batons of dark chocolate", Price: 425},
			{ID: "sourdough-loaf", Name: "Sourdough Loaf", Description: "Three day cold ferment", Price: 900},
			{ID: "baguette", Name: "Baguette", Price: 350},
			{ID: "cinnamon-roll", Name: "Cinnamon Roll", Description: "Brown butter glaze", Price: 450},
			{ID: "cookie", Name: "Chocolate Chip Cookie", Price: 275},
		},
		"autumn.jsonl.gz": {
			{ID: "sourdough-loaf", Name: "Sourdough Loaf", Description: "Three day cold ferment", Price: 950},
			{ID: "pumpkin-loaf", Name: "Pumpkin Spice Loaf", Description: "Seasonal", Price: 1100},
			{ID: "stollen", Name: "Stollen", Description: "Back in December", Price: 1800, Active: boolPtr(false)},
		},
	}

	for filename, entries := range menus {
		filePath := filepath.Join(dataDir, filename)

		if err := createMenuFile(filePath, entries); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d products\n", filePath, len(entries))
	}
}

func createMenuFile(filePath string, entries []catalog.Entry) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	enc := json.NewEncoder(gzipWriter)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to write product %s: %w", e.ID, err)
		}
	}

	return nil
}
