package entities

// MediaItem is a single record from the media API collections. Books, movies
// and series share the same shape; Author/Pages/Publisher are only populated
// for books.
type MediaItem struct {
	ID        string  `json:"_id,omitempty"`
	Title     string  `json:"title"`
	Author    string  `json:"author,omitempty"`
	Genre     string  `json:"genre"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	Pages     int     `json:"pages,omitempty"`
	Publisher string  `json:"publisher,omitempty"`
	Poster    string  `json:"poster,omitempty"`
	Plot      string  `json:"plot,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// CreatedYear returns the four-digit year prefix of CreatedAt, or 0 when the
// timestamp is missing or malformed.
func (m MediaItem) CreatedYear() int {
	if len(m.CreatedAt) < 4 {
		return 0
	}
	year := 0
	for _, r := range m.CreatedAt[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}

// BookUpload is the payload for POST /api/books. The API accepts the form
// fields as strings, so numeric values stay unparsed here.
type BookUpload struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	Author    string `json:"author"`
	Genre     string `json:"genre"`
	Publisher string `json:"publisher,omitempty"`
	Pages     string `json:"pages,omitempty"`
	Poster    string `json:"poster,omitempty"`
	Rating    string `json:"rating,omitempty"`
	Plot      string `json:"plot"`
}
