package config

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-autovalidate/pkg/model"
)

// Parse decodes a JSON or YAML options document. Fields missing from the
// document keep the values from model.DefaultOptions.
func Parse(data []byte) (model.FormValidationOptions, error) {
	opts := model.DefaultOptions()
	if len(strings.TrimSpace(string(data))) == 0 {
		return opts, ErrEmptyDocument
	}

	if err := json.Unmarshal(data, &opts); err == nil {
		return normalise(opts), nil
	}

	opts = model.DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return model.FormValidationOptions{}, fmt.Errorf("config: parse options: invalid JSON or YAML: %w", err)
	}
	return normalise(opts), nil
}

// LoadFile reads an options document from disk.
func LoadFile(path string) (model.FormValidationOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormValidationOptions{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	opts, err := Parse(data)
	if err != nil {
		return model.FormValidationOptions{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return opts, nil
}

// LoadFS reads an options document from fsys.
func LoadFS(fsys fs.FS, path string) (model.FormValidationOptions, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return model.FormValidationOptions{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	opts, err := Parse(data)
	if err != nil {
		return model.FormValidationOptions{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return opts, nil
}

func normalise(opts model.FormValidationOptions) model.FormValidationOptions {
	if len(opts.ErrorsAllowedOnSubmit) == 0 {
		opts.ErrorsAllowedOnSubmit = nil
		return opts
	}
	kinds := make([]model.ErrorKind, 0, len(opts.ErrorsAllowedOnSubmit))
	seen := make(map[model.ErrorKind]struct{}, len(opts.ErrorsAllowedOnSubmit))
	for _, kind := range opts.ErrorsAllowedOnSubmit {
		trimmed := model.ErrorKind(strings.TrimSpace(string(kind)))
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		kinds = append(kinds, trimmed)
	}
	if len(kinds) == 0 {
		kinds = nil
	}
	opts.ErrorsAllowedOnSubmit = kinds
	return opts
}
