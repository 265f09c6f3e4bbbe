package mediaapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/miskhill/annualmedia/internal/entities"
)

// The API stores whatever the upload form sent, so numeric fields arrive as
// numbers or as quoted strings depending on how a record was created. All of
// that tolerance lives here so entities stay strictly typed.

type rawMediaItem struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     string    `json:"genre"`
	Year      flexInt   `json:"year"`
	Rating    flexFloat `json:"rating"`
	Pages     flexInt   `json:"pages"`
	Publisher string    `json:"publisher"`
	Poster    string    `json:"poster"`
	Plot      string    `json:"plot"`
	CreatedAt string    `json:"createdAt"`
}

func (r rawMediaItem) toEntity() entities.MediaItem {
	return entities.MediaItem{
		ID:        r.ID,
		Title:     r.Title,
		Author:    r.Author,
		Genre:     r.Genre,
		Year:      int(r.Year),
		Rating:    float64(r.Rating),
		Pages:     int(r.Pages),
		Publisher: r.Publisher,
		Poster:    r.Poster,
		Plot:      r.Plot,
		CreatedAt: r.CreatedAt,
	}
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	// A float like 2021.0 still counts as a year.
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexFloat(v)
		return nil
	}
	*f = 0
	return nil
}

var _ json.Unmarshaler = (*flexInt)(nil)
var _ json.Unmarshaler = (*flexFloat)(nil)
