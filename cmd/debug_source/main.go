package main

import (
	"context"
	"fmt"
	"log"

	"parking-sync/core/config"
	"parking-sync/core/reconcile"
	"parking-sync/core/source"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Fetches both payloads once and prints the joined facilities with the
// device each one would produce.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	client, err := source.NewClient(cfg.Source, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	fmt.Println("=== Summary ===")
	summary, err := client.FetchSummary(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, cp := range summary.Carparks {
		fmt.Printf("%s: %d summary keys, %d levels\n", cp.Name, len(cp.Summary), len(cp.Levels))
	}

	fmt.Println("\n=== Detailed state ===")
	detail, err := client.FetchDetailedState(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, cp := range detail.Carparks {
		stalls := 0
		for _, lvl := range cp.Levels {
			stalls += len(lvl.Stalls)
		}
		fmt.Printf("%s: %d stalls\n", cp.Name, stalls)
	}

	fmt.Println("\n=== Devices ===")
	for _, f := range reconcile.BuildFacilities(summary, detail) {
		out, err := json.MarshalIndent(reconcile.BuildDevice(f), "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
	}
}
