package domain

import "time"

// Credential is the durable identifier+hash record owned by the credential repository.
type Credential struct {
	ID          string    `bson:"_id,omitempty"`
	Identifier  string    `bson:"email"`
	SecretHash  string    `bson:"password"`
	DisplayName string    `bson:"username"`
	CreatedAt   time.Time `bson:"created_at"`
}

// SessionIdentity is attached to a session after login or registration.
type SessionIdentity struct {
	UserID      string `json:"id"`
	DisplayName string `json:"username"`
	Identifier  string `json:"email"`
}

func (c *Credential) Identity() *SessionIdentity {
	return &SessionIdentity{
		UserID:      c.ID,
		DisplayName: c.DisplayName,
		Identifier:  c.Identifier,
	}
}
