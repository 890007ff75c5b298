package models

// OAuthUserInfo is the normalized record returned by the OAuth relay for
// both providers. The relay never persists it; the client feeds it into a
// profile upsert.
type OAuthUserInfo struct {
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	AvatarURL  *string `json:"avatar_url"`
	Provider   string  `json:"provider"`
	ProviderID string  `json:"provider_id"`
}

// OAuthCallbackRequest is the relay's request body
type OAuthCallbackRequest struct {
	Code string `json:"code"`
}
