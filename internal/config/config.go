package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		API
		OpenLibrary
		Search
		Credentials
		UI
	}

	API struct {
		BaseURL string
		Timeout time.Duration
	}
	OpenLibrary struct {
		BaseURL      string
		CoverBaseURL string
		Timeout      time.Duration
		RateLimit    time.Duration
	}
	Search struct {
		Debounce   time.Duration
		MaxResults int
	}
	Credentials struct {
		Path    string // SQLite file holding the stored session
		KeyPath string // file holding the at-rest encryption key
	}
	UI struct {
		PageSize int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("api_timeout", "30s")
	v.SetDefault("openlibrary_base_url", DefaultOpenLibraryBaseURL)
	v.SetDefault("openlibrary_cover_base_url", DefaultCoverBaseURL)
	v.SetDefault("openlibrary_timeout", "10s")
	v.SetDefault("openlibrary_rate_limit", "1s")
	v.SetDefault("search_debounce", "300ms")
	v.SetDefault("search_max_results", 10)
	v.SetDefault("credentials_path", DefaultCredentialsPath)
	v.SetDefault("credentials_key_path", "")
	v.SetDefault("page_size", 20)

	return &Config{
		API: API{
			BaseURL: v.GetString("API_BASE_URL"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL:      v.GetString("OPENLIBRARY_BASE_URL"),
			CoverBaseURL: v.GetString("OPENLIBRARY_COVER_BASE_URL"),
			Timeout:      v.GetDuration("OPENLIBRARY_TIMEOUT"),
			RateLimit:    v.GetDuration("OPENLIBRARY_RATE_LIMIT"),
		},
		Search: Search{
			Debounce:   v.GetDuration("SEARCH_DEBOUNCE"),
			MaxResults: v.GetInt("SEARCH_MAX_RESULTS"),
		},
		Credentials: Credentials{
			Path:    v.GetString("CREDENTIALS_PATH"),
			KeyPath: v.GetString("CREDENTIALS_KEY_PATH"),
		},
		UI: UI{
			PageSize: v.GetInt("PAGE_SIZE"),
		},
	}
}
