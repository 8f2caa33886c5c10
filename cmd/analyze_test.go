package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-profile-analyzer/internal/config"
	"github.com/naka-gawa/github-profile-analyzer/internal/domain"
	"github.com/naka-gawa/github-profile-analyzer/internal/gateway"
	"github.com/naka-gawa/github-profile-analyzer/internal/render"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockFetcher) FetchRepositories(ctx context.Context, username string) ([]domain.Repository, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockFetcher) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type harness struct {
	analyzer *analyzer
	fetcher  *mockFetcher
	out      *bytes.Buffer
	errOut   *bytes.Buffer
}

func newHarness(stdin string) *harness {
	h := &harness{
		fetcher: new(mockFetcher),
		out:     new(bytes.Buffer),
		errOut:  new(bytes.Buffer),
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h.analyzer = newAnalyzer(strings.NewReader(stdin), h.out, h.errOut, logger)
	h.analyzer.loadConfig = func(config.Options) (*config.Config, error) { return &config.Config{}, nil }
	h.analyzer.newFetcher = func(*config.Config, *logrus.Logger) (gateway.Fetcher, error) { return h.fetcher, nil }
	return h
}

// expectTwoRepos sets up a user whose second repository fails its language fetch.
func (h *harness) expectTwoRepos(username string) {
	h.fetcher.On("FetchProfile", mock.Anything, username).Return(&domain.Profile{Login: username, Name: "Test User", PublicRepos: 2}, nil)
	h.fetcher.On("FetchRepositories", mock.Anything, username).Return([]domain.Repository{
		{Name: "svc", Stars: 5, Forks: 1, Language: "Go", URL: "https://github.com/" + username + "/svc"},
		{Name: "scripts", Stars: 2, Language: "Python", Description: "helpers", URL: "https://github.com/" + username + "/scripts"},
	}, nil)
	h.fetcher.On("FetchLanguages", mock.Anything, username, "svc").Return(map[string]int{"Go": 100}, nil)
	h.fetcher.On("FetchLanguages", mock.Anything, username, "scripts").Return(nil, &gateway.HTTPError{Resource: "languages", StatusCode: 502})
}

func TestNormalizeFormat(t *testing.T) {
	testCases := map[string]string{
		"console":  formatConsole,
		"JSON":     formatJSON,
		"csv":      formatCSV,
		"md":       formatMarkdown,
		"markdown": formatMarkdown,
		" Md ":     formatMarkdown,
	}
	for in, expected := range testCases {
		got, ok := normalizeFormat(in)
		assert.True(t, ok, in)
		assert.Equal(t, expected, got, in)
	}
	_, ok := normalizeFormat("xml")
	assert.False(t, ok)
}

func TestAnalyzer_Run_ValidationHappensBeforeFetching(t *testing.T) {
	testCases := []struct {
		name     string
		opts     analyzeOptions
		expected string
	}{
		{
			name:     "csv without output",
			opts:     analyzeOptions{Username: "octocat", Format: "csv"},
			expected: "Please specify an output file (--output) for CSV format",
		},
		{
			name:     "markdown without output",
			opts:     analyzeOptions{Username: "octocat", Format: "markdown"},
			expected: "Please specify an output file (--output) for Markdown format",
		},
		{
			name:     "unknown format",
			opts:     analyzeOptions{Username: "octocat", Format: "xml", Output: "out.xml"},
			expected: `Unknown format "xml"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			h := newHarness("")

			h.analyzer.run(context.Background(), tc.opts)

			assert.Contains(t, h.errOut.String(), tc.expected)
			assert.Empty(t, h.out.String())
			h.fetcher.AssertNotCalled(t, "FetchProfile", mock.Anything, mock.Anything)
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "no file may be written")
		})
	}
}

func TestAnalyzer_Run_ConsoleWithPromptedUsername(t *testing.T) {
	h := newHarness("octocat\n")
	h.expectTwoRepos("octocat")

	h.analyzer.run(context.Background(), analyzeOptions{Format: "console", NoColor: true, Verbose: true})

	out := h.out.String()
	assert.NotContains(t, out, "Enter GitHub username")
	assert.Contains(t, out, "GitHub Profile Analysis for octocat")
	assert.Contains(t, out, "Top languages:    Go (100), Python (1)")
	assert.Contains(t, out, "🔗 https://github.com/octocat/scripts")
	assert.Equal(t, "Enter GitHub username: ", h.errOut.String())
	h.fetcher.AssertExpectations(t)
}

func TestAnalyzer_Run_PromptKeepsJSONOnStdoutClean(t *testing.T) {
	h := newHarness("octocat\n")
	h.expectTwoRepos("octocat")

	h.analyzer.run(context.Background(), analyzeOptions{Format: "json"})

	assert.Equal(t, "Enter GitHub username: ", h.errOut.String())
	var report render.Report
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &report))
	assert.Equal(t, "octocat", report.Profile.Login)
}

func TestAnalyzer_Run_EmptyPrompt(t *testing.T) {
	h := newHarness("\n")
	h.analyzer.run(context.Background(), analyzeOptions{Format: "console"})
	assert.Contains(t, h.errOut.String(), "No username given")
	h.fetcher.AssertNotCalled(t, "FetchProfile", mock.Anything, mock.Anything)
}

func TestAnalyzer_Run_JSONToStdout(t *testing.T) {
	h := newHarness("")
	h.expectTwoRepos("octocat")

	h.analyzer.run(context.Background(), analyzeOptions{Username: "octocat", Format: "json"})

	var report render.Report
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &report))
	assert.Equal(t, "octocat", report.Profile.Login)
	assert.Equal(t, 7, report.Summary.TotalStars)
	assert.Equal(t, 1, report.Summary.TotalForks)
	assert.Equal(t, "Go", report.Summary.MostUsedLanguage)
	assert.Equal(t, map[string]int{"Go": 100, "Python": 1}, report.Summary.LanguageBreakdown.Map())
}

func TestAnalyzer_Run_FileExports(t *testing.T) {
	testCases := []struct {
		format   string
		file     string
		contains string
	}{
		{format: "json", file: "out.json", contains: `"most_used_language": "Go"`},
		{format: "csv", file: "out.csv", contains: "scripts,2,0,Python,helpers,https://github.com/octocat/scripts"},
		{format: "md", file: "out.md", contains: "## Repositories"},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			h := newHarness("")
			h.expectTwoRepos("octocat")
			path := filepath.Join(t.TempDir(), tc.file)

			h.analyzer.run(context.Background(), analyzeOptions{Username: "octocat", Format: tc.format, Output: path})

			assert.Equal(t, "Exported analysis to "+path+"\n", h.out.String())
			assert.Empty(t, h.errOut.String())
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), tc.contains)
		})
	}
}

func TestAnalyzer_Run_ErrorTranslation(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "rate limit", err: &gateway.RateLimitError{Resource: "user"}, expected: "[!] API rate limit exceeded. Please set GITHUB_TOKEN"},
		{name: "not found", err: &gateway.NotFoundError{Resource: "user"}, expected: `[!] GitHub user "ghost" was not found.`},
		{name: "http error", err: &gateway.HTTPError{Resource: "user", StatusCode: 500}, expected: "HTTP Error: fetching user: 500 Internal Server Error"},
		{name: "anything else", err: errors.New("connection reset"), expected: "Error: connection reset"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness("")
			h.fetcher.On("FetchProfile", mock.Anything, "ghost").Return(nil, tc.err)

			h.analyzer.run(context.Background(), analyzeOptions{Username: "ghost", Format: "console"})

			assert.Contains(t, h.errOut.String(), tc.expected)
			assert.Empty(t, h.out.String())
			h.fetcher.AssertNotCalled(t, "FetchRepositories", mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyzer_Run_NothingWrittenWhenAggregationFails(t *testing.T) {
	h := newHarness("")
	h.fetcher.On("FetchProfile", mock.Anything, "octocat").Return(&domain.Profile{Login: "octocat"}, nil)
	h.fetcher.On("FetchRepositories", mock.Anything, "octocat").Return([]domain.Repository{{Name: "svc", Language: "Go"}}, nil)
	h.fetcher.On("FetchLanguages", mock.Anything, "octocat", "svc").Return(nil, errors.New("unexpected payload"))
	path := filepath.Join(t.TempDir(), "out.csv")

	h.analyzer.run(context.Background(), analyzeOptions{Username: "octocat", Format: "csv", Output: path})

	assert.Contains(t, h.errOut.String(), "Error: failed to fetch languages for svc: unexpected payload")
	assert.NoFileExists(t, path)
}

func TestAnalyzer_Run_ConfigError(t *testing.T) {
	h := newHarness("")
	h.analyzer.loadConfig = func(config.Options) (*config.Config, error) {
		return nil, errors.New("failed to parse config file")
	}

	h.analyzer.run(context.Background(), analyzeOptions{Username: "octocat", Format: "console"})

	assert.Contains(t, h.errOut.String(), "Error: failed to parse config file")
	h.fetcher.AssertNotCalled(t, "FetchProfile", mock.Anything, mock.Anything)
}

// chdir changes the working directory for the duration of the test; it
// stands in for testing.T.Chdir, which needs a newer toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
