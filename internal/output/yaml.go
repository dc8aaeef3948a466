// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

func WriteYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return goerr.Wrap(err, "encoding YAML output")
	}
	if err := enc.Close(); err != nil {
		return goerr.Wrap(err, "flushing YAML output")
	}
	return nil
}
