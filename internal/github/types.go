package github

// User is the subset of GET /users/{username} the finder renders. Optional
// profile fields are pointers because GitHub sends null for unset values.
type User struct {
	Login           string  `json:"login"`
	Name            *string `json:"name"`
	Bio             *string `json:"bio"`
	Location        *string `json:"location"`
	Company         *string `json:"company"`
	Blog            *string `json:"blog"`
	TwitterUsername *string `json:"twitter_username"`
	AvatarURL       string  `json:"avatar_url"`
	HTMLURL         string  `json:"html_url"`
	PublicRepos     int     `json:"public_repos"`
	Followers       int     `json:"followers"`
	Following       int     `json:"following"`
	CreatedAt       string  `json:"created_at"`
}

// apiError is the body GitHub returns alongside non-2xx responses.
type apiError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}
