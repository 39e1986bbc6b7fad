// Package importer seeds the project store from YAML files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

// ErrInvalid is returned for import files that fail validation.
var ErrInvalid = errors.New("invalid import file")

// File is the top-level import document.
type File struct {
	Projects []Project `yaml:"projects"`
}

// Project is one project to create.
type Project struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Status      analysis.Status `yaml:"status"`
	Tags        []string        `yaml:"tags"`
	Notes       []string        `yaml:"notes"`
	Steps       []Step          `yaml:"steps"`
}

// Step sets the status of one framework step.
type Step struct {
	Key    string              `yaml:"key"`
	Status analysis.StepStatus `yaml:"status"`
}

// Writer is the store surface Import needs. *store.DB satisfies it.
type Writer interface {
	CreateProject(ctx context.Context, p store.NewProject) (store.Project, error)
	SetStepStatus(ctx context.Context, id, stepKey string, status analysis.StepStatus) error
	AddTag(ctx context.Context, id, tag string) error
	AddNote(ctx context.Context, id, body string) error
}

// Parse decodes and validates an import document. Unknown fields are
// rejected.
func Parse(r io.Reader) (File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return File{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks every project and step. An empty Status means draft.
func (f File) Validate() error {
	if len(f.Projects) == 0 {
		return fmt.Errorf("%w: no projects", ErrInvalid)
	}
	for i, p := range f.Projects {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: projects[%d]: name is required", ErrInvalid, i)
		}
		if p.Status != "" && !p.Status.Valid() {
			return fmt.Errorf("%w: projects[%d]: unknown status %q", ErrInvalid, i, p.Status)
		}
		for j, s := range p.Steps {
			if strings.TrimSpace(s.Key) == "" {
				return fmt.Errorf("%w: projects[%d].steps[%d]: key is required", ErrInvalid, i, j)
			}
			if !s.Status.Valid() {
				return fmt.Errorf("%w: projects[%d].steps[%d]: unknown status %q", ErrInvalid, i, j, s.Status)
			}
		}
	}
	return nil
}

// Import creates every project in f and returns them in file order. It
// stops at the first store error; projects created before it remain.
func Import(ctx context.Context, w Writer, f File) ([]store.Project, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	created := make([]store.Project, 0, len(f.Projects))
	for _, p := range f.Projects {
		proj, err := w.CreateProject(ctx, store.NewProject{
			Name:        p.Name,
			Description: p.Description,
			Status:      p.Status,
		})
		if err != nil {
			return created, fmt.Errorf("creating %q: %w", p.Name, err)
		}
		created = append(created, proj)

		for _, s := range p.Steps {
			if err := w.SetStepStatus(ctx, proj.ID, s.Key, s.Status); err != nil {
				return created, fmt.Errorf("setting step %s on %q: %w", s.Key, p.Name, err)
			}
		}
		for _, tag := range p.Tags {
			if err := w.AddTag(ctx, proj.ID, tag); err != nil {
				return created, fmt.Errorf("tagging %q: %w", p.Name, err)
			}
		}
		for _, note := range p.Notes {
			if err := w.AddNote(ctx, proj.ID, note); err != nil {
				return created, fmt.Errorf("adding note to %q: %w", p.Name, err)
			}
		}
	}
	return created, nil
}

// ImportFile parses path and imports it.
func ImportFile(ctx context.Context, w Writer, path string) ([]store.Project, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Import(ctx, w, f)
}
