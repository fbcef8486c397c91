package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/typesense/typesense-go/typesense"
	"github.com/typesense/typesense-go/typesense/api"
	"github.com/typesense/typesense-go/typesense/api/pointer"
)

// Creates the movies collection schema if it does not exist yet. The id
// field is implicit in Typesense and must not be declared. Metadata
// fields are optional so partial documents written through the store
// still import.
func main() {
	url := os.Getenv("TYPESENSE_URL")
	if url == "" {
		url = "http://localhost:8108"
	}
	key := os.Getenv("TYPESENSE_API_KEY")
	collectionName := os.Getenv("MOVIES_COLLECTION")
	if collectionName == "" {
		collectionName = "movies"
	}

	log.Println("Starting Typesense schema migration...")
	log.Printf("Connecting to Typesense at %s", url)

	client := typesense.NewClient(
		typesense.WithServer(url),
		typesense.WithAPIKey(key),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			// The searchable document body.
			{Name: "content", Type: "string"},

			// Movie metadata. cast is string[] so a filter on one actor
			// matches membership.
			{Name: "title", Type: "string", Optional: pointer.True()},
			{Name: "ethnicity", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "director", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "cast", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "genre", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "year", Type: "int32", Facet: pointer.True(), Sort: pointer.True(), Optional: pointer.True()},
			{Name: "wiki_page", Type: "string", Optional: pointer.True()},
			{Name: "plot", Type: "string", Optional: pointer.True()},
		},
	}

	log.Printf("Checking schema for '%s'...", collectionName)
	_, err := client.Collection(collectionName).Retrieve(context.Background())
	if err == nil {
		// Typesense rejects re-adding fields that already exist, so an
		// existing collection is left untouched. Drop it to re-create.
		log.Println("Collection exists. Leaving schema unchanged.")
		return
	}
	var httpErr *typesense.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
		log.Fatalf("Failed to check collection: %v", err)
	}

	log.Println("Collection not found. Creating new...")
	if _, err := client.Collections().Create(context.Background(), schema); err != nil {
		log.Fatalf("Failed to create collection: %v", err)
	}
	log.Println("✅ Collection created successfully.")
}
