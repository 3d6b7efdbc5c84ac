package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lifecycle-sim/lifecycle-sim/model"
)

// LoadParams reads a YAML parameter file over the supplied base parameters.
// Keys absent from the file keep their base values, so a file only needs the
// parameters it changes. Unknown keys are rejected (typos must cause errors,
// not silently solve the wrong model).
func LoadParams(path string, base model.Params) (model.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading parameter file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&base); err != nil {
		return base, fmt.Errorf("parsing parameter file: %w", err)
	}
	return base, nil
}
