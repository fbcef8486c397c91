package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"docstore/internal/store"
)

// Queries the movies collection and prints one line per hit. The
// default run answers "which movies has Tom Hanks been in?".
func main() {
	var (
		configPath = flag.String("config", "", "TOML store config file (overrides env connection settings)")
		collection = flag.String("collection", envOr("MOVIES_COLLECTION", "movies"), "collection to search")
		query      = flag.String("q", "", "free-text query over document content (empty matches all)")
		field      = flag.String("field", "cast", "metadata field to filter on (empty disables the filter)")
		value      = flag.String("value", "Tom Hanks", "value the field must hold")
	)
	flag.Parse()

	st, err := openStore(*configPath, *collection)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	var filters []store.Filter
	if *field != "" && *value != "" {
		filters = append(filters, store.Eq(*field, *value))
	}

	docs, err := st.Search(context.Background(), *query, filters...)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}

	log.Printf("%d matching documents in '%s'", len(docs), st.Collection())
	for _, doc := range docs {
		title, _ := doc.Metadata["title"].(string)
		if title == "" {
			title = doc.ID
		}
		if year := doc.Metadata["year"]; year != nil {
			fmt.Printf("%v\t%s\n", year, title)
		} else {
			fmt.Println(title)
		}
	}
}

func openStore(configPath, collection string) (*store.Store, error) {
	if configPath != "" {
		mapping, err := store.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		return store.FromConfig(mapping)
	}
	url := envOr("TYPESENSE_URL", "http://localhost:8108")
	return store.New(store.NewTypesense(url, os.Getenv("TYPESENSE_API_KEY")), collection)
}

// Helper to get env with fallback
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
