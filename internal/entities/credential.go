package entities

import "time"

// Credential entry names used by the durable credential store.
const (
	CredentialToken = "token"
	CredentialUser  = "user"
)

// Credential is a single named entry in the local credential database.
type Credential struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
