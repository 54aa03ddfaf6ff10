// pkg/roster/roster.go
package roster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sunvm/unik-registration-tg/internal/models"
)

// UnknownReviewerName is shown when a decision arrives from an id that has
// since left the roster.
const UnknownReviewerName = "Неизвестный администратор"

type rosterFile struct {
	Reviewers []models.Reviewer `json:"reviewers"`
}

// Roster is the static reviewer directory loaded at startup.
type Roster struct {
	reviewers []models.Reviewer
	byID      map[int64]models.Reviewer
}

// Load reads and validates the roster file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return Parse(data)
}

// Parse validates raw roster JSON against the schema and builds the roster.
func Parse(data []byte) (*Roster, error) {
	schemaLoader := gojsonschema.NewStringLoader(rosterSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("roster validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("roster validation failed: %v", errs)
	}

	var file rosterFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal roster: %w", err)
	}

	byID := make(map[int64]models.Reviewer, len(file.Reviewers))
	for _, r := range file.Reviewers {
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate reviewer id %d in roster", r.ID)
		}
		byID[r.ID] = r
	}

	return &Roster{reviewers: file.Reviewers, byID: byID}, nil
}

// All returns the reviewers in file order.
func (r *Roster) All() []models.Reviewer {
	out := make([]models.Reviewer, len(r.reviewers))
	copy(out, r.reviewers)
	return out
}

// IDs returns the reviewer ids in file order.
func (r *Roster) IDs() []int64 {
	ids := make([]int64, len(r.reviewers))
	for i, rev := range r.reviewers {
		ids[i] = rev.ID
	}
	return ids
}

// Contains reports whether id belongs to a configured reviewer.
func (r *Roster) Contains(id int64) bool {
	_, ok := r.byID[id]
	return ok
}

// NameOf resolves a reviewer's display name, falling back to a placeholder
// for unknown ids.
func (r *Roster) NameOf(id int64) string {
	if rev, ok := r.byID[id]; ok {
		return rev.Name
	}
	return UnknownReviewerName
}
