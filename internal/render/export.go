// Package render turns a profile and its summary into console output or
// export files (JSON, CSV, Markdown).
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/naka-gawa/github-profile-analyzer/internal/domain"
)

// topLanguageCount is how many languages the console and Markdown views rank.
const topLanguageCount = 3

// formatTopLanguages renders the top languages as "Go (120), Shell (4)", or
// "N/A" when the breakdown is empty.
func formatTopLanguages(b domain.LanguageBreakdown) string {
	top := b.Top(topLanguageCount)
	if len(top) == 0 {
		return "N/A"
	}
	parts := make([]string, 0, len(top))
	for _, lw := range top {
		parts = append(parts, fmt.Sprintf("%s (%d)", lw.Language, lw.Weight))
	}
	return strings.Join(parts, ", ")
}

// orNA substitutes "N/A" for empty profile fields.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// writeFileAtomic writes to a temporary file next to path and renames it into
// place once write has succeeded. On failure no file is left at path.
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ExportJSON writes the JSON rendering to path.
func ExportJSON(path string, profile *domain.Profile, summary *domain.Summary) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return JSON(w, profile, summary)
	})
}

// ExportCSV writes the repository table to path.
func ExportCSV(path string, summary *domain.Summary) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return CSV(w, summary)
	})
}

// ExportMarkdown writes the Markdown report to path.
func ExportMarkdown(path string, profile *domain.Profile, summary *domain.Summary) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return Markdown(w, profile, summary)
	})
}
