package entities

import "encoding/json"

// User is the authenticated user's profile as returned by the login endpoint.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// UnmarshalJSON accepts both "id" and the Mongo-style "_id" the API uses.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	u.Email = raw.Email
	u.Name = raw.Name
	return nil
}

// IsZero reports whether the profile carries no identifier at all.
func (u User) IsZero() bool {
	return u.ID == "" && u.Email == "" && u.Name == ""
}
