// Package credstore is the durable client-side storage for the session: two
// named entries (the bearer token and the serialized user profile) in a local
// SQLite database. The token is sealed at rest.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/miskhill/annualmedia/internal/crypto"
	"github.com/miskhill/annualmedia/internal/entities"
)

// ErrMalformed indicates a stored entry could not be decoded. Callers treat
// it as "no session", never as a fatal condition.
var ErrMalformed = errors.New("malformed stored credential")

// Store persists the session's token and user profile.
type Store struct {
	db     *gorm.DB
	sealer *crypto.Sealer
}

// Config holds configuration for the credential store.
type Config struct {
	// DatabasePath is the path to the SQLite database file
	DatabasePath string

	// KeyPath is the path to the sealing key file; empty uses the default
	// location in the user's home directory
	KeyPath string
}

// New opens (creating if needed) the credential database.
func New(cfg Config) (*Store, error) {
	sealer, err := crypto.NewSealerFromKeyFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("resolve sealing key: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open credential database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Credential{}); err != nil {
		return nil, fmt.Errorf("migrate credential schema: %w", err)
	}

	return &Store{db: db, sealer: sealer}, nil
}

// SaveSession writes both entries. The write is a single transaction so the
// stored token and user can never diverge.
func (s *Store) SaveSession(token string, user entities.User) error {
	sealedToken, err := s.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, entities.CredentialToken, sealedToken); err != nil {
			return err
		}
		return upsert(tx, entities.CredentialUser, string(userJSON))
	})
}

// LoadToken returns the stored bearer token, or "" when absent. A token that
// cannot be unsealed is reported as ErrMalformed.
func (s *Store) LoadToken() (string, error) {
	value, found, err := s.load(entities.CredentialToken)
	if err != nil || !found {
		return "", err
	}
	token, err := s.sealer.Open(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return token, nil
}

// LoadUser returns the stored user profile. Missing entries yield a zero
// user; undecodable entries yield ErrMalformed.
func (s *Store) LoadUser() (entities.User, error) {
	var user entities.User
	value, found, err := s.load(entities.CredentialUser)
	if err != nil || !found {
		return user, err
	}
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return entities.User{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return user, nil
}

// Clear removes both entries. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	result := s.db.Where("name IN ?", []string{entities.CredentialToken, entities.CredentialUser}).
		Delete(&entities.Credential{})
	if result.Error != nil {
		return fmt.Errorf("clear credentials: %w", result.Error)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func (s *Store) load(name string) (value string, found bool, err error) {
	var cred entities.Credential
	result := s.db.Where("name = ?", name).First(&cred)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load %s: %w", name, result.Error)
	}
	return cred.Value, true, nil
}

func upsert(tx *gorm.DB, name, value string) error {
	cred := entities.Credential{Name: name, Value: value, UpdatedAt: time.Now()}
	result := tx.Where("name = ?", name).
		Assign(map[string]interface{}{"value": value, "updated_at": cred.UpdatedAt}).
		FirstOrCreate(&cred)
	if result.Error != nil {
		return fmt.Errorf("save %s: %w", name, result.Error)
	}
	return nil
}
