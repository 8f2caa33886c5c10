package render

import (
	"encoding/json"
	"io"

	"github.com/naka-gawa/github-profile-analyzer/internal/domain"
)

// Report is the document written by the JSON renderer.
type Report struct {
	Profile *domain.Profile `json:"profile"`
	Summary *domain.Summary `json:"summary"`
}

// JSON writes {"profile": ..., "summary": ...} indented by two spaces.
func JSON(w io.Writer, profile *domain.Profile, summary *domain.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Report{Profile: profile, Summary: summary})
}
