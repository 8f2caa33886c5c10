package domain

// Profile is the public identity record of a GitHub user.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Blog        string `json:"blog"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	PublicGists int    `json:"public_gists"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	CreatedAt   string `json:"created_at"`
}

// Repository is a single repository as returned by the listing endpoint.
// Language is never empty; repositories without a detected language carry UnknownLanguage.
type Repository struct {
	Name        string
	Stars       int
	Forks       int
	Language    string
	Description string
	URL         string
}

// Detail converts the repository into its output row.
func (r Repository) Detail() RepoDetail {
	return RepoDetail{
		Name:        r.Name,
		Stars:       r.Stars,
		Forks:       r.Forks,
		Language:    r.Language,
		Description: r.Description,
		URL:         r.URL,
	}
}
