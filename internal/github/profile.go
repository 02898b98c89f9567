package github

import (
	"strings"

	"github.com/battlewithbytes/lookout/internal/present"
)

const twitterBase = "https://twitter.com/"

// Profile is the display-ready form of a User.
type Profile struct {
	Login      string        `json:"login"`
	Handle     string        `json:"handle"`
	Name       string        `json:"name"`
	Bio        string        `json:"bio"`
	AvatarURL  string        `json:"avatar_url"`
	AvatarAlt  string        `json:"avatar_alt"`
	ProfileURL string        `json:"profile_url"`
	Repos      string        `json:"repos"`
	Followers  string        `json:"followers"`
	Following  string        `json:"following"`
	Joined     string        `json:"joined"`
	Details    []present.Row `json:"details"`
}

// NewProfile formats u for display. Absent optional fields produce no row.
func NewProfile(u *User) Profile {
	return Profile{
		Login:      u.Login,
		Handle:     "@" + u.Login,
		Name:       present.Or(u.Name, u.Login),
		Bio:        present.Or(u.Bio, "No bio available"),
		AvatarURL:  u.AvatarURL,
		AvatarAlt:  u.Login + "'s avatar",
		ProfileURL: u.HTMLURL,
		Repos:      present.FormatNumber(u.PublicRepos),
		Followers:  present.FormatNumber(u.Followers),
		Following:  present.FormatNumber(u.Following),
		Joined:     present.FormatISODate(u.CreatedAt),
		Details: present.Rows(
			func() (present.Row, bool) { return present.OptionalRow("Location", u.Location) },
			func() (present.Row, bool) { return present.LinkRow("Website", u.Blog, websiteURL, nil) },
			func() (present.Row, bool) {
				return present.LinkRow("Twitter", u.TwitterUsername, twitterURL, twitterHandle)
			},
			func() (present.Row, bool) { return present.OptionalRow("Company", u.Company) },
		),
	}
}

// websiteURL makes a schemeless blog value ("example.com") a usable link.
func websiteURL(blog string) string {
	if strings.HasPrefix(blog, "http://") || strings.HasPrefix(blog, "https://") {
		return blog
	}
	return "https://" + blog
}

func twitterURL(handle string) string {
	return twitterBase + strings.TrimPrefix(handle, "@")
}

func twitterHandle(handle string) string {
	return "@" + strings.TrimPrefix(handle, "@")
}
