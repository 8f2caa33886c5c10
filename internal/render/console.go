package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/naka-gawa/github-profile-analyzer/internal/domain"
)

// ConsoleOptions controls the console renderer.
type ConsoleOptions struct {
	// Verbose adds repository URLs and star statistics.
	Verbose bool
	// NoColor disables ANSI styling even on a terminal.
	NoColor bool
}

type consoleStyles struct {
	rule, title, label, value, heading, bullet, faint, link lipgloss.Style
}

func newConsoleStyles(w io.Writer, noColor bool) consoleStyles {
	renderer := lipgloss.NewRenderer(w)
	if noColor {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return consoleStyles{
		rule:    renderer.NewStyle().Foreground(lipgloss.Color("6")),
		title:   renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		label:   renderer.NewStyle().Foreground(lipgloss.Color("3")),
		value:   renderer.NewStyle().Foreground(lipgloss.Color("7")),
		heading: renderer.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		bullet:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
		faint:   renderer.NewStyle().Foreground(lipgloss.Color("8")),
		link:    renderer.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// Console writes a human-readable analysis: the profile, totals, the top
// languages and one line per repository.
func Console(w io.Writer, profile *domain.Profile, summary *domain.Summary, opts ConsoleOptions) error {
	s := newConsoleStyles(w, opts.NoColor)
	var b strings.Builder

	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", s.label.Render(label), s.value.Render(value))
	}

	fmt.Fprintf(&b, "\n%s\n", s.rule.Render(strings.Repeat("=", 50)))
	fmt.Fprintf(&b, "%s\n", s.title.Render("GitHub Profile Analysis for "+profile.Login))
	fmt.Fprintf(&b, "%s\n", s.rule.Render(strings.Repeat("=", 50)))
	line("Name:        ", orNA(profile.Name))
	line("Public repos:", fmt.Sprint(profile.PublicRepos))
	line("Followers:   ", fmt.Sprint(profile.Followers))
	line("Following:   ", fmt.Sprint(profile.Following))
	line("Bio:         ", orNA(profile.Bio))

	fmt.Fprintf(&b, "\n%s\n", s.rule.Render(strings.Repeat("-", 40)))
	fmt.Fprintf(&b, "%s\n", s.heading.Render("Summary:"))
	line("Total stars:     ", fmt.Sprint(summary.TotalStars))
	line("Total forks:     ", fmt.Sprint(summary.TotalForks))
	line("Most used lang:  ", summary.MostUsedLanguage)
	line("Top languages:   ", formatTopLanguages(summary.LanguageBreakdown))
	if opts.Verbose {
		st := summary.StarStats
		line("Stars per repo:  ", fmt.Sprintf("mean %g, median %g, max %g", st.Mean, st.Median, st.Max))
	}

	fmt.Fprintf(&b, "\n%s\n", s.rule.Render(strings.Repeat("-", 40)))
	fmt.Fprintf(&b, "%s\n", s.heading.Render("Repositories:"))
	if len(summary.RepoDetails) == 0 {
		fmt.Fprintf(&b, "  %s\n", s.faint.Render("(none)"))
	}
	for _, repo := range summary.RepoDetails {
		fmt.Fprintf(&b, "  %s %s %s\n",
			s.bullet.Render("•"),
			s.value.Render(repo.Name),
			s.rule.Render(fmt.Sprintf("(⭐ %d, 🍴 %d, 💻 %s)", repo.Stars, repo.Forks, repo.Language)),
		)
		if repo.Description != "" {
			fmt.Fprintf(&b, "     %s\n", s.faint.Render("↳ "+repo.Description))
		}
		if opts.Verbose {
			fmt.Fprintf(&b, "     %s\n", s.link.Render("🔗 "+repo.URL))
		}
	}
	fmt.Fprintf(&b, "%s\n\n", s.rule.Render(strings.Repeat("=", 50)))

	_, err := io.WriteString(w, b.String())
	return err
}
