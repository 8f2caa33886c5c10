package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/naka-gawa/github-profile-analyzer/internal/domain"
)

// Markdown writes a report with the profile header, a Summary section and a
// Repositories section.
func Markdown(w io.Writer, profile *domain.Profile, summary *domain.Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# GitHub Profile Analysis for %s\n\n", profile.Login)
	fmt.Fprintf(bw, "**Name:** %s  \n", orNA(inline(profile.Name)))
	fmt.Fprintf(bw, "**Public repos:** %d  \n", profile.PublicRepos)
	fmt.Fprintf(bw, "**Followers:** %d  \n", profile.Followers)
	fmt.Fprintf(bw, "**Following:** %d  \n", profile.Following)
	fmt.Fprintf(bw, "**Bio:** %s\n\n", orNA(inline(profile.Bio)))

	fmt.Fprint(bw, "## Summary\n\n")
	fmt.Fprintf(bw, "- Total stars: %d\n", summary.TotalStars)
	fmt.Fprintf(bw, "- Total forks: %d\n", summary.TotalForks)
	fmt.Fprintf(bw, "- Most used language: %s\n", summary.MostUsedLanguage)
	fmt.Fprintf(bw, "- Top languages: %s\n\n", formatTopLanguages(summary.LanguageBreakdown))

	fmt.Fprint(bw, "## Repositories\n\n")
	if len(summary.RepoDetails) == 0 {
		fmt.Fprint(bw, "_No public repositories._\n")
	}
	for _, repo := range summary.RepoDetails {
		fmt.Fprintf(bw, "- **%s** (⭐ %d, Forks: %d, Lang: %s)\n", inline(repo.Name), repo.Stars, repo.Forks, inline(repo.Language))
		if repo.Description != "" {
			fmt.Fprintf(bw, "    - Desc: %s\n", inline(repo.Description))
		}
		fmt.Fprintf(bw, "    - URL: %s\n", repo.URL)
	}

	return bw.Flush()
}

// inline collapses every run of whitespace, newlines included, into a single
// space so that free text from the API stays on its list line.
func inline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
