package model

type JWT struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ReissueResponse struct {
	AccessToken string `json:"accessToken"`
}

type Session struct {
	SignedIn  bool   `json:"signedIn"`
	Subject   string `json:"subject,omitempty"`
	Role      string `json:"role,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}
