package openlibrary

// SearchResult is one row of a title search, trimmed to what the picker
// needs. ISBN13 is the key for the follow-up detail fetch; it is empty when
// the document carried no usable code at all.
type SearchResult struct {
	Title              string   `json:"title"`
	Authors            []string `json:"authors"`
	FirstPublishedYear int      `json:"first_published_year,omitempty"`
	ISBN13             string   `json:"isbn13,omitempty"`
	CoverURL           string   `json:"cover_url,omitempty"`
}

// BookDetail is the full record assembled from an edition lookup plus its
// referenced author and work resources.
type BookDetail struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description,omitempty"`
	Subjects      []string `json:"subjects,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	ISBN13        string   `json:"isbn13,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
}
