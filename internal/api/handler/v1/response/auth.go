package response

import "github.com/questevent/questevent-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type ProfileResponse struct {
	User   domain.User       `json:"user"`
	Wallet domain.UserWallet `json:"wallet"`
}
