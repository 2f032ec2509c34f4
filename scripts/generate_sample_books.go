//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

type feedBook struct {
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description"`
	PublishedDate *time.Time      `json:"publishedDate,omitempty"`
}

// Writes sample catalogue feeds for cmd/seed.
// books1.jsonl.gz: four valid books
// books2.jsonl.gz: three valid books, one over-priced record (rejected)
// and one line that is not JSON (malformed)
func main() {
	dataDir := "data/feeds"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	feeds := map[string][]string{
		"books1.jsonl.gz": {
			book("The Go Programming Language", "Alan Donovan", "39.99", "2015-10-26"),
			book("Concurrency in Go", "Katherine Cox-Buday", "34.50", "2017-07-19"),
			book("Designing Data-Intensive Applications", "Martin Kleppmann", "45.00", "2017-03-16"),
			book("The Pragmatic Programmer", "David Thomas", "29.95", "1999-10-20"),
		},
		"books2.jsonl.gz": {
			book("Database Internals", "Alex Petrov", "41.25", "2019-09-13"),
			book("Site Reliability Engineering", "Betsy Beyer", "0.00", "2016-04-16"),
			book("Release It!", "Michael Nygard", "32.00", "2018-01-08"),
			book("An Unreasonably Expensive Folio", "Anonymous", "12000.00", ""),
			`{"title": "Truncated`,
		},
	}

	for filename, lines := range feeds {
		filePath := filepath.Join(dataDir, filename)

		if err := createFeedFile(filePath, lines); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d lines\n", filePath, len(lines))
	}

	fmt.Println("\nSample feeds created successfully!")
	fmt.Println("Import them with:")
	fmt.Printf("  go run ./cmd/seed %s %s\n",
		filepath.Join(dataDir, "books1.jsonl.gz"),
		filepath.Join(dataDir, "books2.jsonl.gz"))
}

func book(title, author, price, published string) string {
	b := feedBook{
		Title:       title,
		Author:      author,
		Price:       decimal.RequireFromString(price),
		Description: fmt.Sprintf("%s by %s.", title, author),
	}
	if published != "" {
		t, err := time.Parse(time.DateOnly, published)
		if err != nil {
			log.Fatalf("bad date %q: %v", published, err)
		}
		b.PublishedDate = &t
	}

	data, err := json.Marshal(b)
	if err != nil {
		log.Fatalf("failed to encode %q: %v", title, err)
	}
	return string(data)
}

func createFeedFile(filePath string, lines []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", line); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}

	return nil
}
