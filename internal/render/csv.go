package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/naka-gawa/github-profile-analyzer/internal/domain"
)

// CSVHeader is the fixed column order of the repository table.
var CSVHeader = []string{"Repository", "Stars", "Forks", "Language", "Description", "URL"}

// CSV writes a header row and one row per repository.
func CSV(w io.Writer, summary *domain.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, repo := range summary.RepoDetails {
		record := []string{
			repo.Name,
			strconv.Itoa(repo.Stars),
			strconv.Itoa(repo.Forks),
			repo.Language,
			repo.Description,
			repo.URL,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
