// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/bonial-oss/sentinel-risk/internal/scoring"
	"github.com/bonial-oss/sentinel-risk/internal/types"
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

type ParseResult struct {
	Format    Format
	Workspace *types.Workspace
}

// Detect guesses the document format: JSON when the first non-space byte
// opens an object, YAML otherwise.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes and validates a workspace document. Unknown fields and
// unknown enumeration values are rejected. Omitted consultation types and
// priorities get their defaults; omitted asset values and treatment scores
// are derived.
func Parse(data []byte) (*ParseResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, goerr.New("empty input", goerr.T(types.ErrTagValidation))
	}

	format := Detect(data)
	var ws types.Workspace
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ws); err != nil {
			return nil, goerr.Wrap(err, "parsing JSON workspace", goerr.T(types.ErrTagValidation))
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&ws); err != nil {
			return nil, goerr.Wrap(err, "parsing YAML workspace", goerr.T(types.ErrTagValidation))
		}
	}

	ws.ApplyDefaults()
	if err := ws.Validate(); err != nil {
		return nil, err
	}
	scoring.Derive(&ws)
	return &ParseResult{Format: format, Workspace: &ws}, nil
}
