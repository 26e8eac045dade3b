package models

const (
	MwUserIDKey = "userID"
	MwTokenKey  = "token"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResponse is the wire shape shared by every /auth endpoint: a success
// flag plus either a token pair or a list of human-readable reasons.
type AuthResponse struct {
	Success      bool     `json:"success"`
	Token        string   `json:"token,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}
