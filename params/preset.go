// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package params

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ApplyPreset reads a YAML mapping of parameter names to values and stages
// every entry into s. Entries are validated first; on error nothing is
// written.
//
//	dilution_variable: 0.8
//	blur_amount: 7
//	show: pigment
func ApplyPreset(r io.Reader, s *Store) error {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("params: decode preset: %w", err)
	}

	// Validate against a scratch store so a bad entry leaves s untouched.
	scratch := &Store{live: s.Snapshot()}
	var names []string
	for _, name := range Names() {
		v, ok := doc[name]
		if !ok {
			continue
		}
		if err := scratch.SetValue(name, v); err != nil {
			return err
		}
		names = append(names, name)
	}
	if len(names) != len(doc) {
		for name := range doc {
			if _, err := lookup(name); err != nil {
				return err
			}
		}
	}
	for _, name := range names {
		if err := s.SetValue(name, doc[name]); err != nil {
			return err
		}
	}
	return nil
}

// ApplyPresetFile applies the preset stored at path.
func ApplyPresetFile(path string, s *Store) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("params: open preset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ApplyPreset(f, s)
}

// WritePreset writes p as a YAML preset.
func WritePreset(w io.Writer, p Parameters) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("params: encode preset: %w", err)
	}
	return enc.Close()
}
