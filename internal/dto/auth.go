package dto

import "minimarket/internal/model"

// ── Auth ─────────────────────────────────────────────────────────────────────

// LoginRequest carries only a username; the seed accounts have no password.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=60"`
}

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int        `json:"expires_in"`
	User        model.User `json:"user"`
}

type UserFilter struct {
	Search string `form:"search"`
}
