/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package tables reads pattern tables from YAML or TOML files. Token kinds in
// such tables are plain strings:
//
//	rules:
//	  - pattern: ""
//	    kind: EOF
//	  - pattern: '\s+'
//	    skip: true
//	  - pattern: '[a-z]\w*'
//	    kind: ID
package tables

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dburkart/gramstats/pkg/common/parse"
	"github.com/dburkart/gramstats/pkg/scanner"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

type Rule struct {
	Pattern string `yaml:"pattern" toml:"pattern"`
	Kind    string `yaml:"kind" toml:"kind"`
	Skip    bool   `yaml:"skip" toml:"skip"`
}

type file struct {
	Rules []Rule `yaml:"rules" toml:"rules"`
}

// DetectFormat picks the format from the file extension, defaulting to TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Load reads the pattern table stored at path.
func Load(path string) (scanner.Table[string], error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &parse.IOError{Name: path, Err: err}
	}

	table, err := Parse(content, DetectFormat(path))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return table, nil
}

func Parse(content []byte, format Format) (scanner.Table[string], error) {
	var f file

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &f); err != nil {
			return nil, &parse.ConfigurationError{Message: errors.Wrap(err, "YAML parse error").Error()}
		}
	default:
		if err := toml.Unmarshal(content, &f); err != nil {
			return nil, &parse.ConfigurationError{Message: errors.Wrap(err, "TOML parse error").Error()}
		}
	}

	table := make(scanner.Table[string], 0, len(f.Rules))
	for i, r := range f.Rules {
		if r.Kind == "" && !r.Skip {
			return nil, &parse.ConfigurationError{Message: fmt.Sprintf("rule %d has neither a kind nor skip", i)}
		}
		table = append(table, scanner.Rule[string]{Pattern: r.Pattern, Kind: r.Kind, Skip: r.Skip})
	}

	return table, nil
}
