package main

import (
	"fmt"
	"os"

	"github.com/example/layerpaint/internal/editor"
	"github.com/example/layerpaint/internal/project"
)

// loadProjectEditor reads a project file and builds an editor from it,
// blocking until every layer image has decoded.
func loadProjectEditor(path string) (*editor.Editor, *project.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc, err := project.Unmarshal(data)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	ed, err := editor.New(doc.Width, doc.Height)
	if err != nil {
		return nil, nil, err
	}
	errCh := make(chan error, 1)
	if err := ed.ImportProject(doc, func(err error) { errCh <- err }); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := <-errCh; err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ed, doc, nil
}

// saveProjectEditor serializes the editor state back to a project file.
func saveProjectEditor(path string, ed *editor.Editor) error {
	doc, err := ed.ExportProject()
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	data, err := project.Marshal(doc)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
