// seed_catalog.go loads a packaging CSV into the Postgres catalog table,
// replacing its contents.
//
// Usage:
//
//	go run scripts/seed_catalog.go -csv data/packaging_types.csv -db postgres://localhost/packrank
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/MikeSquared-Agency/Packrank/internal/catalog"
)

func main() {
	csvPath := flag.String("csv", "data/packaging_types.csv", "path to the packaging CSV")
	dbURL := flag.String("db", os.Getenv("PACKRANK_DATABASE_URL"), "Postgres connection URL")
	dryRun := flag.Bool("dry-run", false, "print options without writing")
	flag.Parse()

	opts, err := catalog.NewCSVSource(*csvPath).Load(context.Background())
	if err != nil {
		log.Fatalf("load csv: %v", err)
	}
	if err := catalog.Validate(opts); err != nil {
		log.Fatalf("invalid catalog: %v", err)
	}

	if *dryRun {
		for i, o := range opts {
			fmt.Printf("%2d. %-24s cost=%g durability=%g environmental_impact=%g reusability=%g\n",
				i+1, o.Name, o.Cost, o.Durability, o.EnvironmentalImpact, o.Reusability)
		}
		return
	}
	if *dbURL == "" {
		log.Fatal("-db or PACKRANK_DATABASE_URL required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src, err := catalog.NewPostgresSource(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer src.Close()

	if err := src.Replace(ctx, opts); err != nil {
		log.Fatalf("seed: %v", err)
	}
	fmt.Printf("seeded %d packaging options\n", len(opts))
}
