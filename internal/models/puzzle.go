package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
	DifficultyExpert = "Expert"
)

const (
	FormatText  = "text"
	FormatLatex = "latex"
	FormatImage = "image"
	FormatPDF   = "pdf"
)

const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// TagList is stored as a single comma-joined column but exposed as an
// ordered JSON array.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

func (t *TagList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TagList", src)
	}

	if raw == "" {
		*t = nil
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make(TagList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	*t = tags
	return nil
}

type Puzzle struct {
	ID               int       `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	Tags             TagList   `db:"tags" json:"tags"`
	Difficulty       string    `db:"difficulty" json:"difficulty"`
	Format           string    `db:"format" json:"format"`
	FilePath         *string   `db:"file_path" json:"filePath,omitempty"`
	Deadline         time.Time `db:"deadline" json:"deadline"`
	SolutionFormat   *string   `db:"solution_format" json:"solutionFormat,omitempty"`
	SolutionText     *string   `db:"solution_text" json:"solutionText,omitempty"`
	SolutionFilePath *string   `db:"solution_file_path" json:"solutionFilePath,omitempty"`
	IsActive         bool      `db:"is_active" json:"isActive"`
	Slug             string    `db:"slug" json:"slug"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	// Derived field filled in after fetch, never stored
	Status string `db:"-" json:"status"`
}

// DeriveStatus computes the status virtual relative to the given clock.
func (p *Puzzle) DeriveStatus(now time.Time) {
	if now.Before(p.Deadline) {
		p.Status = StatusActive
	} else {
		p.Status = StatusClosed
	}
}

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatLatex, FormatImage, FormatPDF:
		return true
	}
	return false
}

type CreatePuzzleRequest struct {
	Title          string `form:"title"`
	Description    string `form:"description"`
	Tags           string `form:"tags"`
	Difficulty     string `form:"difficulty"`
	Format         string `form:"format"`
	Deadline       string `form:"deadline"`
	SolutionFormat string `form:"solutionFormat"`
	SolutionText   string `form:"solutionText"`
}

func (r *CreatePuzzleRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}

	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}

	if !ValidDifficulty(r.Difficulty) {
		return errors.New("difficulty must be one of Easy, Medium, Hard, Expert")
	}

	if !ValidFormat(r.Format) {
		return errors.New("format must be one of text, latex, image, pdf")
	}

	if r.SolutionFormat != "" && !ValidFormat(r.SolutionFormat) {
		return errors.New("solutionFormat must be one of text, latex, image, pdf")
	}

	if _, err := time.Parse(time.RFC3339, r.Deadline); err != nil {
		return errors.New("deadline must be a valid RFC3339 timestamp")
	}

	return nil
}

// ParseTags splits the comma-separated form value preserving order.
func (r *CreatePuzzleRequest) ParseTags() TagList {
	if strings.TrimSpace(r.Tags) == "" {
		return nil
	}
	parts := strings.Split(r.Tags, ",")
	tags := make(TagList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

type UpdatePuzzleRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Tags           *string `json:"tags"`
	Difficulty     *string `json:"difficulty"`
	Format         *string `json:"format"`
	Deadline       *string `json:"deadline"`
	SolutionFormat *string `json:"solutionFormat"`
	SolutionText   *string `json:"solutionText"`
	IsActive       *bool   `json:"isActive"`
}

func (r *UpdatePuzzleRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title cannot be empty")
	}

	if r.Difficulty != nil && !ValidDifficulty(*r.Difficulty) {
		return errors.New("difficulty must be one of Easy, Medium, Hard, Expert")
	}

	if r.Format != nil && !ValidFormat(*r.Format) {
		return errors.New("format must be one of text, latex, image, pdf")
	}

	if r.SolutionFormat != nil && *r.SolutionFormat != "" && !ValidFormat(*r.SolutionFormat) {
		return errors.New("solutionFormat must be one of text, latex, image, pdf")
	}

	if r.Deadline != nil {
		if _, err := time.Parse(time.RFC3339, *r.Deadline); err != nil {
			return errors.New("deadline must be a valid RFC3339 timestamp")
		}
	}

	return nil
}
