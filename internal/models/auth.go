package models

// TelegramLoginRequest mirrors the fields the Telegram Login Widget posts.
// Hash is the HMAC the widget computed over the remaining fields; it is
// verified before any user record is touched.
type TelegramLoginRequest struct {
	ID        int64  `json:"id" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date" validate:"required"`
	Hash      string `json:"hash" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
