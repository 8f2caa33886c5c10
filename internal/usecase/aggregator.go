// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/github-profile-analyzer/internal/domain"
	"github.com/naka-gawa/github-profile-analyzer/internal/gateway"
)

// Aggregator is the use case for summarizing a user's repositories.
// It combines the repository list with per-repository language data.
type Aggregator struct {
	fetcher gateway.LanguageFetcher
	logger  *logrus.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.LanguageFetcher, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Summarize totals stars and forks and builds the language breakdown.
//
// Repositories are processed sequentially in listing order. When the
// language fetch for a repository fails, the repository counts once for its
// declared primary language and aggregation carries on; only errors outside
// that category (see gateway.IsFetchFailure) abort the run.
func (a *Aggregator) Summarize(ctx context.Context, repos []domain.Repository, username string) (*domain.Summary, error) {
	a.logger.Debugf("Usecase: Summarizing %d repositories...", len(repos))
	a.logger.Debug("[3/3] Fetching repository languages...")

	summary := &domain.Summary{
		RepoDetails: make([]domain.RepoDetail, 0, len(repos)),
	}
	stars := make(stats.Float64Data, 0, len(repos))

	for _, repo := range repos {
		summary.TotalStars += repo.Stars
		summary.TotalForks += repo.Forks
		stars = append(stars, float64(repo.Stars))

		languages, err := a.fetcher.FetchLanguages(ctx, username, repo.Name)
		switch {
		case err == nil && len(languages) > 0:
			addLanguages(&summary.LanguageBreakdown, languages)
		case err == nil:
			summary.LanguageBreakdown.Add(primaryLanguage(repo), 1)
		case gateway.IsFetchFailure(err):
			a.logger.Warnf("Could not fetch languages for %s: %v", repo.Name, err)
			summary.LanguageBreakdown.Add(primaryLanguage(repo), 1)
		default:
			return nil, fmt.Errorf("failed to fetch languages for %s: %w", repo.Name, err)
		}

		summary.RepoDetails = append(summary.RepoDetails, repo.Detail())
	}

	summary.MostUsedLanguage = summary.LanguageBreakdown.MostUsed()
	summary.StarStats = starStats(stars)

	a.logger.Debug("Usecase: Aggregation complete.")
	return summary, nil
}

// addLanguages merges one repository's languages in name order so that the
// breakdown's insertion order does not depend on map iteration.
func addLanguages(b *domain.LanguageBreakdown, languages map[string]int) {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.Add(name, languages[name])
	}
}

func primaryLanguage(repo domain.Repository) string {
	if repo.Language == "" {
		return domain.UnknownLanguage
	}
	return repo.Language
}

func starStats(stars stats.Float64Data) domain.StarStats {
	if stars.Len() == 0 {
		return domain.StarStats{}
	}
	// The inputs are non-empty, so these cannot fail.
	mean, _ := stars.Mean()
	median, _ := stars.Median()
	maximum, _ := stars.Max()
	mean, _ = stats.Round(mean, 2)
	median, _ = stats.Round(median, 2)
	return domain.StarStats{Mean: mean, Median: median, Max: maximum}
}
