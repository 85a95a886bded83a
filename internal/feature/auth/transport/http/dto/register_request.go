// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterReq represents the credential part of the /auth/register request body.
// Every other top-level field of the body is treated as a profile field.
type RegisterReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// reservedFields are body keys that never become profile fields.
var reservedFields = []string{"id", "email", "password", "createdAt", "updatedAt"}

// ProfileFields returns the body's non-credential fields, or nil when there are none.
func ProfileFields(body map[string]any) map[string]any {
	profile := make(map[string]any, len(body))
	for k, v := range body {
		profile[k] = v
	}
	for _, k := range reservedFields {
		delete(profile, k)
	}
	if len(profile) == 0 {
		return nil
	}
	return profile
}
