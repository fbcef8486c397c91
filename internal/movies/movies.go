// Package movies turns the wiki movie plots CSV dataset into documents
// ready for indexing.
package movies

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"docstore/internal/document"
)

// Column headers expected in wiki_movie_plots_deduped.csv. Columns are
// looked up by header name, so their order does not matter.
var requiredColumns = []string{
	"Release Year",
	"Title",
	"Origin/Ethnicity",
	"Director",
	"Cast",
	"Genre",
	"Wiki Page",
	"Plot",
}

// Load reads up to limit movie rows (limit <= 0 reads everything) and
// builds one document per complete row. Rows with an empty column or a
// non-numeric release year are dropped. Document ids derive from the
// content hash, so rows with identical content collapse to one id.
func Load(r io.Reader, limit int) ([]document.Document, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("csv missing column %q", name)
		}
	}

	var docs []document.Document
	for limit <= 0 || len(docs) < limit {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		doc, ok, err := fromRecord(record, index)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func fromRecord(record []string, index map[string]int) (document.Document, bool, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for _, name := range requiredColumns {
		if field(name) == "" {
			return document.Document{}, false, nil
		}
	}
	year, err := strconv.Atoi(field("Release Year"))
	if err != nil {
		return document.Document{}, false, nil
	}

	content := fmt.Sprintf("%s (%d)\nDirected by %s\nCast: %s\nGenre: %s\n%s",
		field("Title"), year, field("Director"), field("Cast"), field("Genre"), field("Plot"))

	doc, err := document.New(content, map[string]any{
		"title":     field("Title"),
		"ethnicity": field("Origin/Ethnicity"),
		"director":  field("Director"),
		"cast":      splitCast(field("Cast")),
		"genre":     field("Genre"),
		"year":      year,
		"wiki_page": field("Wiki Page"),
		"plot":      field("Plot"),
	})
	if err != nil {
		return document.Document{}, false, fmt.Errorf("row %q: %w", field("Title"), err)
	}
	return doc, true, nil
}

// splitCast breaks the comma-separated cast column into names so the
// cast field supports membership filters.
func splitCast(cast string) []string {
	parts := strings.Split(cast, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
