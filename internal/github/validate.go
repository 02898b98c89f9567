package github

import (
	"regexp"
	"strings"

	"github.com/battlewithbytes/lookout/internal/search"
)

// MaxUsernameLength is GitHub's limit on login length.
const MaxUsernameLength = 39

const (
	MsgUsernameRequired = "Please enter a GitHub username"
	MsgUsernameInvalid  = "Please enter a valid GitHub username (alphanumeric characters and single hyphens only)"
)

// Alphanumeric runs joined by single hyphens: no leading, trailing or doubled hyphen.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*$`)

// ValidateUsername trims raw and checks it against GitHub's login grammar.
// Empty input and malformed input fail with different messages.
func ValidateUsername(raw string) (string, *search.AppError) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", search.NewError(search.KindValidationFailed, MsgUsernameRequired)
	}
	if len(username) > MaxUsernameLength || !usernamePattern.MatchString(username) {
		return "", search.NewError(search.KindValidationFailed, MsgUsernameInvalid)
	}
	return username, nil
}
