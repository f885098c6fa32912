package model

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadProject reads a project specification from a .json, .yaml or .yml file.
// A relative csv reference is resolved against the file's directory.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read project %s", path)
	}

	p, err := DecodeProject(data, filepath.Ext(path))
	if err != nil {
		return nil, eris.Wrapf(err, "model: load project %s", path)
	}

	if p.CSV != "" && !filepath.IsAbs(p.CSV) {
		p.CSV = filepath.Join(filepath.Dir(path), p.CSV)
	}
	return p, nil
}

// DecodeProject parses a project from YAML when ext is .yaml/.yml and JSON otherwise.
func DecodeProject(data []byte, ext string) (*Project, error) {
	var p Project
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrap(err, "model: decode project yaml")
		}
	default:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrap(err, "model: decode project json")
		}
	}
	return &p, nil
}

// LoadPlots reads a plot collection written by WriteJSON.
func LoadPlots(path string) ([]Plot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read plots %s", path)
	}
	var plots []Plot
	if err := json.Unmarshal(data, &plots); err != nil {
		return nil, eris.Wrapf(err, "model: decode plots %s", path)
	}
	return plots, nil
}

// WriteJSON writes v as indented JSON, replacing any existing file.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrapf(err, "model: encode %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "model: write %s", path)
	}
	return nil
}
