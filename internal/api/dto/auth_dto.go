package dto

import "github.com/storefront/admin-console/internal/domain"

// LoginRequest is posted by the login form, as JSON or urlencoded.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Redir    string `json:"redir" form:"redir"`
}

// LoginResponse tells the page where to go after signing in.
type LoginResponse struct {
	Redirect string       `json:"redirect"`
	User     *domain.User `json:"user"`
}
