// Package domain contains the core data structures and domain logic for the application.
package domain

// UnknownLanguage is reported when a repository declares no primary language,
// and as the most-used language when no language data could be collected.
const UnknownLanguage = "Unknown"

// RepoDetail is the per-repository row shared by every renderer.
type RepoDetail struct {
	Name        string `json:"name"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Language    string `json:"language"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// StarStats describes how stars are spread across a user's repositories.
type StarStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Summary is the result of aggregating a user's repositories.
// It is the core domain entity of this application.
type Summary struct {
	TotalStars        int               `json:"total_stars"`
	TotalForks        int               `json:"total_forks"`
	MostUsedLanguage  string            `json:"most_used_language"`
	RepoDetails       []RepoDetail      `json:"repo_details"`
	LanguageBreakdown LanguageBreakdown `json:"language_breakdown"`
	StarStats         StarStats         `json:"star_stats"`
}
