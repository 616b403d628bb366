// Package loader opens a source.Provider from a manifest file, inline
// manifest content, or Go package patterns.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/typeschema/goprovider"
	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/tserrors"
)

// Source selects where declarations come from. Exactly one of Manifest,
// Content, or Packages must be set.
type Source struct {
	// Manifest is the path to a YAML or JSON manifest file.
	Manifest string `json:"manifest,omitempty" jsonschema:"Path to a YAML or JSON declaration manifest"`
	// Content is an inline YAML or JSON manifest.
	Content string `json:"content,omitempty" jsonschema:"Inline YAML or JSON declaration manifest"`
	// Packages are Go package patterns resolved relative to Dir.
	Packages []string `json:"packages,omitempty" jsonschema:"Go package patterns to load, e.g. ./models/..."`
	// Dir is the working directory for Packages.
	Dir string `json:"dir,omitempty" jsonschema:"Directory in which Go package patterns are resolved"`
}

// ErrNoSource is returned when a Source selects nothing or more than one input.
var ErrNoSource = errors.New("exactly one of manifest, content, or packages must be set")

// Key returns a stable identity for the source. File manifests include
// their modification time so edits produce a new key.
func (s Source) Key() (string, error) {
	switch {
	case s.Manifest != "":
		abs, err := filepath.Abs(s.Manifest)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", &tserrors.ConfigError{Option: "manifest", Value: s.Manifest, Message: "reading manifest", Cause: err}
		}
		return fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano()), nil
	case s.Content != "":
		sum := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(sum[:]), nil
	default:
		return "go:" + s.Dir + ":" + strings.Join(s.Packages, ","), nil
	}
}

// Validate reports whether exactly one input is selected.
func (s Source) Validate() error {
	n := 0
	for _, set := range []bool{s.Manifest != "", s.Content != "", len(s.Packages) > 0} {
		if set {
			n++
		}
	}
	if n != 1 {
		return ErrNoSource
	}
	return nil
}

// Open builds the provider for s.
func Open(s Source) (source.Provider, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var (
		p   source.Provider
		err error
	)
	switch {
	case s.Manifest != "":
		p, err = source.LoadManifest(s.Manifest)
	case s.Content != "":
		p, err = source.ParseManifest([]byte(s.Content), "inline")
	default:
		p, err = goprovider.Load(goprovider.Config{Dir: s.Dir, Patterns: s.Packages})
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
