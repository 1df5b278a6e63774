package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User statuses. Login is only allowed for active accounts.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// User represents a registrant in the authentication system.
// The token fields always hold the most recently issued pair; there is no
// token history or concurrent-session tracking.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"  json:"id"`
	Name         string        `bson:"name"           json:"name"`
	Email        string        `bson:"email"          json:"email"`
	Password     string        `bson:"password"       json:"password"`
	VerifyEmail  bool          `bson:"verify_email"   json:"verify_email"`
	Status       string        `bson:"status"         json:"status"`
	AccessToken  string        `bson:"access_token"   json:"access_token"`
	RefreshToken string        `bson:"refresh_token"  json:"refresh_token"`
	CreatedAt    time.Time     `bson:"created_at"     json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"     json:"updated_at"`
}
