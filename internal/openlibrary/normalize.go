package openlibrary

import (
	"encoding/json"
	"strings"
)

// Open Library is loosely typed: references are strings or {key} objects,
// descriptions are strings or {type, value} objects, and any field may be
// missing. Everything that copes with that lives in this file; the rest of
// the package works with the two stable record types.

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
}

type editionRecord struct {
	Key           string          `json:"key"`
	Title         string          `json:"title"`
	Authors       []keyRef        `json:"authors"`
	Works         []keyRef        `json:"works"`
	PublishDate   string          `json:"publish_date"`
	NumberOfPages int             `json:"number_of_pages"`
	Description   json.RawMessage `json:"description"`
	Notes         json.RawMessage `json:"notes"`
	Subjects      []string        `json:"subjects"`
	ISBN10        []string        `json:"isbn_10"`
	ISBN13        []string        `json:"isbn_13"`
}

type workRecord struct {
	Description   json.RawMessage `json:"description"`
	Subjects      []string        `json:"subjects"`
	Genres        []string        `json:"genres"`
	SubjectPeople []string        `json:"subject_people"`
	SubjectPlaces []string        `json:"subject_places"`
	SubjectTimes  []string        `json:"subject_times"`
}

type authorRecord struct {
	Name string `json:"name"`
}

// keyRef is a cross-resource reference, serialized either as a bare string
// ("/authors/OL26320A") or as {"key": "/authors/OL26320A"}.
type keyRef struct {
	Key string
}

func (r *keyRef) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		r.Key = asString
		return nil
	}
	var asObject struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(data, &asObject); err == nil {
		r.Key = asObject.Key
		return nil
	}
	// Unknown reference shapes are dropped, not fatal.
	r.Key = ""
	return nil
}

// firstRefKey returns the first non-blank key among the references.
func firstRefKey(refs []keyRef) string {
	for _, ref := range refs {
		if key := strings.TrimSpace(ref.Key); key != "" {
			return key
		}
	}
	return ""
}

// extractISBN13 picks the document's ISBN: the first 13-character code when
// one exists, otherwise the first non-blank code, otherwise "".
func extractISBN13(codes []string) string {
	for _, code := range codes {
		if len(code) == 13 {
			return code
		}
	}
	for _, code := range codes {
		if strings.TrimSpace(code) != "" {
			return code
		}
	}
	return ""
}

// parseDescription handles both description encodings.
func parseDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject.Value
	}
	return ""
}

// normalizeStrings trims entries and drops blanks, preserving order.
func normalizeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// mergeUnique concatenates the lists, keeping the first occurrence of each
// value.
func mergeUnique(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range lists {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	return merged
}

func titleOrDefault(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled"
	}
	return title
}
