package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/charlesng35/permstate/internal/permissions"
	"github.com/charlesng35/permstate/internal/script"
	apperrors "github.com/charlesng35/permstate/pkg/errors"
)

// partialCatalogError reports catalog entries that were skipped while the
// rest of the catalog remained usable.
type partialCatalogError struct {
	issues error
}

func (e *partialCatalogError) Error() string {
	return fmt.Sprintf("catalog partially decoded: %v", e.issues)
}

func (e *partialCatalogError) Unwrap() error {
	return e.issues
}

func loadCatalog(path string) (*permissions.Catalog, error) {
	raw, err := readDocument(path)
	if err != nil {
		return nil, apperrors.ErrCatalogInvalid.WithInternal(err)
	}

	catalog, issues := permissions.DecodeCatalog(raw)
	if issues != nil {
		return catalog, &partialCatalogError{issues: issues}
	}
	return catalog, nil
}

func loadSelection(path string) (*permissions.Selection, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	raw, err := readDocument(path)
	if err != nil {
		return nil, apperrors.ErrSelectionInvalid.WithInternal(err)
	}

	selection, err := permissions.DecodeSelection(raw)
	if err != nil {
		return nil, apperrors.ErrSelectionInvalid.WithInternal(err)
	}
	return selection, nil
}

func loadScript(path string) ([]script.Step, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.ErrScriptInvalid.WithInternal(fmt.Errorf("open script: %w", err))
	}
	defer f.Close()

	return script.Parse(f)
}

// readDocument decodes a YAML or JSON object. An empty file yields nil.
func readDocument(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var doc map[string]any
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}
