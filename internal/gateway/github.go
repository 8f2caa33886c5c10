// Package gateway provides a gateway to the GitHub REST API,
// abstracting away the underlying client and its error responses.
package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/github-profile-analyzer/internal/config"
	"github.com/naka-gawa/github-profile-analyzer/internal/domain"
)

// reposPerPage is the page size of the repository listing.
const reposPerPage = 100

// LanguageFetcher fetches the language breakdown of a single repository.
type LanguageFetcher interface {
	FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	LanguageFetcher
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
	FetchRepositories(ctx context.Context, username string) ([]domain.Repository, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *logrus.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The token in cfg is optional; without it requests are anonymous.
func NewGitHubGateway(cfg *config.Config, logger *logrus.Logger) (*GitHubGateway, error) {
	// A zero single sleep limit means secondary rate limits are reported, never waited out.
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(0, func(*github_ratelimit.CallbackContext) {
			logger.Warn("GitHub secondary rate limit reached; not retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if cfg.HasToken() {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		}
	} else {
		logger.Debug("No GitHub token configured; using anonymous requests")
	}

	restClient := github.NewClient(&http.Client{Transport: transport})
	if cfg.BaseURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.BaseURL, err)
		}
	}

	return &GitHubGateway{
		restClient: restClient,
		logger:     logger,
	}, nil
}

// FetchProfile fetches the public profile of a user.
func (g *GitHubGateway) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	g.logger.Debugf("[1/3] Fetching profile of %s...", username)
	user, resp, err := g.restClient.Users.Get(ctx, username)
	if err != nil {
		return nil, classify(fmt.Sprintf("user %q", username), resp, err)
	}

	profile := &domain.Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		Blog:        user.GetBlog(),
		HTMLURL:     user.GetHTMLURL(),
		PublicRepos: user.GetPublicRepos(),
		PublicGists: user.GetPublicGists(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
	}
	if created := user.GetCreatedAt(); !created.IsZero() {
		profile.CreatedAt = created.UTC().Format("2006-01-02T15:04:05Z")
	}
	return profile, nil
}

// FetchRepositories lists every public repository of a user. Pages are
// requested one after another until an empty page comes back.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, username string) ([]domain.Repository, error) {
	g.logger.Debugf("[2/3] Fetching repositories of %s...", username)
	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{Page: 1, PerPage: reposPerPage},
	}
	var repos []domain.Repository
	for {
		page, resp, err := g.restClient.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, classify(fmt.Sprintf("repositories of %q (page %d)", username, opts.Page), resp, err)
		}
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			repos = append(repos, toRepository(r))
		}
		opts.Page++
		g.logger.Debugf("  Fetching page %d of repositories...", opts.Page)
	}
	g.logger.Debugf("Completed fetching %d repositories.", len(repos))
	return repos, nil
}

// FetchLanguages returns bytes of code per language for one repository.
func (g *GitHubGateway) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	g.logger.Debugf("  Fetching languages of %s/%s...", owner, repo)
	languages, resp, err := g.restClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, classify(fmt.Sprintf("languages of %s/%s", owner, repo), resp, err)
	}
	return languages, nil
}

func toRepository(r *github.Repository) domain.Repository {
	language := r.GetLanguage()
	if language == "" {
		language = domain.UnknownLanguage
	}
	return domain.Repository{
		Name:        r.GetName(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Language:    language,
		Description: r.GetDescription(),
		URL:         r.GetHTMLURL(),
	}
}
