// Debug tool to test Wayback CDX fetching directly
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/waybackpulse/internal/api"
	"github.com/thesavant42/waybackpulse/internal/models"
	"github.com/thesavant42/waybackpulse/internal/pipeline"
)

func main() {
	domain := "raspberrypi.com"
	if len(os.Args) > 1 {
		domain = os.Args[1]
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})

	domain, err := api.NormalizeDomain(domain)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	site := api.SiteLabel(domain)

	fmt.Printf("Testing CDX fetch for domain: %s (site %s)\n", domain, site)
	fmt.Printf("Query: %s\n", api.BuildCDXQuery(domain))

	client := api.NewWaybackClient(logger, api.ClientOptions{BaseURL: os.Getenv("WAYBACK_CDX_BASE_URL")})

	fmt.Println("\n--- Fetching capture index ---")
	table, err := client.FetchSite(context.Background(), domain)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Raw rows: %d\n", table.DataRows())

	fmt.Println("\n--- Normalizing ---")
	records, err := pipeline.Normalize(domain, table, site)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Kept (status 200): %d, dropped: %d\n", len(records), table.DataRows()-len(records))

	// Show first 3 records
	fmt.Println("\nFirst records:")
	for i, rec := range records {
		if i >= 3 {
			fmt.Printf("  ... and %d more\n", len(records)-3)
			break
		}
		fmt.Printf("  %d. %s %s (%s)\n", i+1, rec.Date.Format("2006-01-02"), rec.Original, rec.MimeType)
	}

	fmt.Println("\nPer year:")
	for _, b := range pipeline.Aggregate(records, models.GranularityYear, nil) {
		fmt.Printf("  %s  %d\n", b.Start.Format(models.GranularityYear.Layout()), b.Count)
	}
}
