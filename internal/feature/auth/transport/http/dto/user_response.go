package dto

import (
	"time"

	"auth_backend/internal/feature/auth/domain/entity"
)

// RegisterRes represents the response for a successful registration.
type RegisterRes struct {
	Message string          `json:"message"`
	Data    RegisterResData `json:"data"`
}

// RegisterResData wraps the created user.
type RegisterResData struct {
	NewUser map[string]any `json:"newUser"`
}

// ErrorRes is the body of every error response.
type ErrorRes struct {
	Error string `json:"error"`
}

// NewUserRes flattens a user into its public JSON form: the profile fields
// plus id, email and timestamps. The password hash is never included.
func NewUserRes(u *entity.User) map[string]any {
	res := make(map[string]any, len(u.Profile)+4)
	for k, v := range u.Profile {
		res[k] = v
	}
	res["id"] = u.ID
	res["email"] = u.Email
	res["createdAt"] = u.CreatedAt.Format(time.RFC3339Nano)
	res["updatedAt"] = u.UpdatedAt.Format(time.RFC3339Nano)
	delete(res, "password")
	return res
}
