package config

// Default endpoints and paths
const (
	// DefaultAPIBaseURL is the hosted Annual Media API
	DefaultAPIBaseURL = "https://annualmediaserver.onrender.com"

	// DefaultOpenLibraryBaseURL is the Open Library JSON API
	DefaultOpenLibraryBaseURL = "https://openlibrary.org"

	// DefaultCoverBaseURL is the Open Library cover image host
	DefaultCoverBaseURL = "https://covers.openlibrary.org"

	// DefaultCredentialsPath is the default path for the local session database
	DefaultCredentialsPath = "./annualmedia.db"
)
