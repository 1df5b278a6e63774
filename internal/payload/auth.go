package payload

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest is the body of POST /api/verify-email. The code is the
// identifier embedded in the verification link.
type VerifyEmailRequest struct {
	Code string `json:"code"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token pair. The same values are also set
// as cookies.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
