package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/typesense/typesense-go/typesense"
)

func TestBuildFilterBy(t *testing.T) {
	cases := []struct {
		name    string
		filters []Filter
		want    string
	}{
		{name: "empty", filters: nil, want: ""},
		{name: "string value", filters: []Filter{Eq("cast", "Tom Hanks")}, want: "cast:=`Tom Hanks`"},
		{name: "number value", filters: []Filter{Eq("year", 1994)}, want: "year:=1994"},
		{name: "bool value", filters: []Filter{Eq("restored", true)}, want: "restored:=true"},
		{
			name:    "joined clauses",
			filters: []Filter{Eq("genre", "comedy"), Eq("year", 1994)},
			want:    "genre:=`comedy` && year:=1994",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, buildFilterBy(tc.filters))
		})
	}
}

func TestMapTypesenseError(t *testing.T) {
	err := mapTypesenseError("delete", &typesense.HTTPError{Status: 404, Body: []byte("Not Found")})
	assert.ErrorIs(t, err, ErrNotFound)

	err = mapTypesenseError("import", &typesense.HTTPError{Status: 409, Body: []byte("Conflict")})
	assert.ErrorIs(t, err, ErrDuplicateDocument)

	err = mapTypesenseError("search", &typesense.HTTPError{Status: 503, Body: []byte("not ready")})
	assert.ErrorIs(t, err, ErrUnavailable)

	err = mapTypesenseError("search", &typesense.HTTPError{Status: 500, Body: []byte("boom")})
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "500")

	err = mapTypesenseError("health", errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")

	err = mapTypesenseError("search", fmt.Errorf("request: %w", context.Canceled))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, 404, statusOf(&typesense.HTTPError{Status: 404}))
	assert.Equal(t, 0, statusOf(errors.New("no http involved")))
}

func TestTypesenseConfigSnapshot(t *testing.T) {
	backend := NewTypesense("http://localhost:8108", "dev-key")
	assert.Equal(t, map[string]string{
		"backend": "typesense",
		"url":     "http://localhost:8108",
		"api_key": "dev-key",
	}, backend.Config())
}
