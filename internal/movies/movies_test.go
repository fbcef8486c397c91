package movies_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstore/internal/movies"
)

const sampleCSV = `Release Year,Title,Origin/Ethnicity,Director,Cast,Genre,Wiki Page,Plot
1994,Forrest Gump,American,Robert Zemeckis,"Tom Hanks, Robin Wright",comedy-drama,https://en.wikipedia.org/wiki/Forrest_Gump,"Forrest sits at a bus stop and tells his story."
1995,Apollo 13,American,Ron Howard,"Tom Hanks, Kevin Bacon, Bill Paxton",docudrama,https://en.wikipedia.org/wiki/Apollo_13_(film),"An oxygen tank explodes en route to the moon."
1999,The Matrix,American,The Wachowskis,"Keanu Reeves, Laurence Fishburne",science fiction,https://en.wikipedia.org/wiki/The_Matrix,"A hacker discovers his world is a simulation."
1920,,American,Unknown,,drama,https://example.org/blank,"A row with blank columns that must be dropped."
`

func TestLoadBuildsDocuments(t *testing.T) {
	docs, err := movies.Load(strings.NewReader(sampleCSV), 0)
	require.NoError(t, err)
	require.Len(t, docs, 3, "the blank row is dropped")

	gump := docs[0]
	assert.Equal(t, "Forrest Gump", gump.Metadata["title"])
	assert.Equal(t, "American", gump.Metadata["ethnicity"])
	assert.Equal(t, "Robert Zemeckis", gump.Metadata["director"])
	assert.Equal(t, []string{"Tom Hanks", "Robin Wright"}, gump.Metadata["cast"])
	assert.Equal(t, "comedy-drama", gump.Metadata["genre"])
	assert.Equal(t, 1994, gump.Metadata["year"])
	assert.Equal(t, "https://en.wikipedia.org/wiki/Forrest_Gump", gump.Metadata["wiki_page"])
	assert.Contains(t, gump.Content, "Forrest Gump (1994)")
	assert.Contains(t, gump.Content, "Forrest sits at a bus stop")

	ids := map[string]struct{}{}
	for _, doc := range docs {
		assert.Len(t, doc.ID, 64)
		ids[doc.ID] = struct{}{}
	}
	assert.Len(t, ids, 3, "distinct rows derive distinct ids")
}

func TestLoadHonoursLimit(t *testing.T) {
	docs, err := movies.Load(strings.NewReader(sampleCSV), 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Forrest Gump", docs[0].Metadata["title"])
	assert.Equal(t, "Apollo 13", docs[1].Metadata["title"])
}

func TestLoadLooksColumnsUpByName(t *testing.T) {
	// Same rows with the column order shuffled.
	shuffled := `Title,Plot,Release Year,Origin/Ethnicity,Director,Cast,Genre,Wiki Page
The Matrix,"A hacker discovers his world is a simulation.",1999,American,The Wachowskis,"Keanu Reeves, Laurence Fishburne",science fiction,https://en.wikipedia.org/wiki/The_Matrix
`
	docs, err := movies.Load(strings.NewReader(shuffled), 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "The Matrix", docs[0].Metadata["title"])
	assert.Equal(t, 1999, docs[0].Metadata["year"])
}

func TestLoadDropsNonNumericYears(t *testing.T) {
	input := `Release Year,Title,Origin/Ethnicity,Director,Cast,Genre,Wiki Page,Plot
unknown,Some Film,American,Someone,Someone Else,drama,https://example.org/some-film,"A plot."
`
	docs, err := movies.Load(strings.NewReader(input), 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadRejectsMissingColumns(t *testing.T) {
	input := `Release Year,Title,Plot
1994,Forrest Gump,"Forrest tells his story."
`
	_, err := movies.Load(strings.NewReader(input), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}
