// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package corpus

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestGenreListUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want GenreList
	}{
		{name: "array form", data: `["Action","Comedy"]`, want: GenreList{"Action", "Comedy"}},
		{name: "delimited string form", data: `"Action|Comedy"`, want: GenreList{"Action", "Comedy"}},
		{name: "single label string", data: `"Drama"`, want: GenreList{"Drama"}},
		{name: "empty array", data: `[]`, want: GenreList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got GenreList
			if err := json.Unmarshal([]byte(tt.data), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.data, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestGenreListUnmarshalJSONRejectsNumbers(t *testing.T) {
	var got GenreList
	if err := json.Unmarshal([]byte(`42`), &got); err == nil {
		t.Error("Unmarshal(42) error = nil, want error")
	}
}
