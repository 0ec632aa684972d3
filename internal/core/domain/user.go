package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Fixed storage keys of the three session entries.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// TokenPair is what the token endpoint returns on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Credentials are posted to the token endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is sent as multipart form data. Resume is optional.
type Registration struct {
	Username       string
	Email          string
	Password       string
	ResumeFilename string
	Resume         []byte
}

// User is the identity decoded from the access token. Claims keeps every
// claim as received so nothing is lost when it is stored and read back.
type User struct {
	ID        string         `json:"user_id"`
	Username  string         `json:"username,omitempty"`
	Email     string         `json:"email,omitempty"`
	ExpiresAt time.Time      `json:"expires_at,omitempty"`
	Claims    map[string]any `json:"-"`
}

// UserFromClaims maps JWT claims onto a User.
func UserFromClaims(claims map[string]any) *User {
	u := &User{Claims: claims}
	switch v := claims["user_id"].(type) {
	case string:
		u.ID = v
	case float64:
		u.ID = fmt.Sprintf("%.0f", v)
	case nil:
	default:
		u.ID = fmt.Sprint(v)
	}
	u.Username, _ = claims["username"].(string)
	u.Email, _ = claims["email"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		u.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return u
}

// Profile is the current user's profile as returned by the backend.
type Profile struct {
	ID        int64          `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty"`
	Raw       map[string]any `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps every field in Raw.
func (p *Profile) UnmarshalJSON(b []byte) error {
	type plain Profile
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	raw := map[string]any{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Profile(v)
	p.Raw = raw
	return nil
}
