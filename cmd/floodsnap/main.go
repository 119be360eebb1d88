// Command floodsnap captures the live flood warning feed and writes test
// fixtures: the raw upstream body and the normalized records the monitor
// would cache. It runs the same client and normalization code as the service.
//
// Usage:
//
//	go run ./cmd/floodsnap \
//	  -raw-out internal/domain/testdata/floods_live.json \
//	  -records-out data/mock/flood_records.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/flood-monitor/internal/adapter/floodapi"
	"github.com/couchcryptid/flood-monitor/internal/config"
	"github.com/couchcryptid/flood-monitor/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feedURL := flag.String("url", config.DefaultFeedURL, "flood warning feed URL")
	rawOut := flag.String("raw-out", "", "output path for the raw feed body")
	recordsOut := flag.String("records-out", "", "output path for normalized records")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	if *rawOut == "" && *recordsOut == "" {
		flag.Usage()
		return fmt.Errorf("at least one of -raw-out, -records-out is required")
	}

	client := floodapi.NewClient(*feedURL, *timeout, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	feed, raw, err := client.FetchFeed(ctx)
	if err != nil {
		return fmt.Errorf("fetching feed: %w", err)
	}
	records := domain.NormalizeFeed(feed)
	log.Printf("fetched %d items from %s", len(records), *feedURL)

	if *rawOut != "" {
		if err := writeFile(*rawOut, raw); err != nil {
			return fmt.Errorf("writing raw fixture: %w", err)
		}
		log.Printf("wrote raw fixture: %s", *rawOut)
	}

	if *recordsOut != "" {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		if err := writeFile(*recordsOut, append(data, '\n')); err != nil {
			return fmt.Errorf("writing records fixture: %w", err)
		}
		log.Printf("wrote records fixture: %s", *recordsOut)
	}

	printStats(records)
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

type areaCount struct {
	area  string
	count int
}

func printStats(records []domain.FloodRecord) {
	levels := map[int]int{}
	areas := map[string]int{}
	var unknownCounty, unknownRiver int
	for i := range records {
		r := &records[i]
		levels[r.SeverityLevel]++
		areas[r.EAAreaName]++
		if r.FloodArea.County == domain.UnknownValue {
			unknownCounty++
		}
		if r.FloodArea.RiverOrSea == domain.UnknownValue {
			unknownRiver++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(records))
	fmt.Printf("By severity level: 1=%d, 2=%d, 3=%d, 4=%d\n", levels[1], levels[2], levels[3], levels[4])
	fmt.Printf("Unknown county: %d, unknown river/sea: %d\n", unknownCounty, unknownRiver)

	ac := make([]areaCount, 0, len(areas))
	for a, c := range areas {
		ac = append(ac, areaCount{a, c})
	}
	sort.Slice(ac, func(i, j int) bool {
		if ac[i].count != ac[j].count {
			return ac[i].count > ac[j].count
		}
		return ac[i].area < ac[j].area
	})
	fmt.Printf("EA areas (%d):", len(ac))
	for _, a := range ac {
		fmt.Printf(" %q=%d", a.area, a.count)
	}
	fmt.Println()
}
