// Package config loads and validates run parameters. Values come from an
// optional TOML file overlaid with command-line flags.
package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"darwin/internal/model"
)

type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// Parameters is the full set of inputs of one run. Zero values mean "not set";
// a threshold of 0 is reported as missing.
type Parameters struct {
	InputFile              string  `toml:"input_file"`
	OutputFile             string  `toml:"output_file"`
	ExtinctionThreshold    float64 `toml:"extinction_threshold"`
	ProliferationThreshold float64 `toml:"proliferation_threshold"`
	Generations            int     `toml:"generations"`
	PairsToCrossover       int     `toml:"pairs_to_crossover"`
}

func (p Parameters) Model() model.Parameters {
	return model.Parameters{
		ExtinctionThreshold:    p.ExtinctionThreshold,
		ProliferationThreshold: p.ProliferationThreshold,
		Generations:            p.Generations,
		PairsToCrossover:       p.PairsToCrossover,
	}
}

// LoadFile decodes a TOML parameter file. Unknown keys are rejected.
func LoadFile(path string) (Parameters, error) {
	var params Parameters
	md, err := toml.DecodeFile(path, &params)
	if err != nil {
		return Parameters{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Parameters{}, &ConfigurationError{Field: keys[0], Reason: "unknown key in " + path}
	}
	return params, nil
}

// Overlay returns base with every field that is set in override replaced.
func Overlay(base, override Parameters) Parameters {
	out := base
	if override.InputFile != "" {
		out.InputFile = override.InputFile
	}
	if override.OutputFile != "" {
		out.OutputFile = override.OutputFile
	}
	if override.ExtinctionThreshold != 0 {
		out.ExtinctionThreshold = override.ExtinctionThreshold
	}
	if override.ProliferationThreshold != 0 {
		out.ProliferationThreshold = override.ProliferationThreshold
	}
	if override.Generations != 0 {
		out.Generations = override.Generations
	}
	if override.PairsToCrossover != 0 {
		out.PairsToCrossover = override.PairsToCrossover
	}
	return out
}

func (p Parameters) Validate() error {
	if strings.TrimSpace(p.InputFile) == "" {
		return &ConfigurationError{Field: "input_file", Reason: "is required"}
	}
	if strings.TrimSpace(p.OutputFile) == "" {
		return &ConfigurationError{Field: "output_file", Reason: "is required"}
	}
	if err := validateThreshold("extinction_threshold", p.ExtinctionThreshold); err != nil {
		return err
	}
	if err := validateThreshold("proliferation_threshold", p.ProliferationThreshold); err != nil {
		return err
	}
	if p.Generations <= 0 {
		return &ConfigurationError{Field: "generations", Reason: "must be > 0"}
	}
	if p.PairsToCrossover <= 0 {
		return &ConfigurationError{Field: "pairs_to_crossover", Reason: "must be > 0"}
	}
	return nil
}

func validateThreshold(field string, v float64) error {
	if v == 0 {
		return &ConfigurationError{Field: field, Reason: "is required"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
		return &ConfigurationError{Field: field, Reason: fmt.Sprintf("must be in [0, 1], got %v", v)}
	}
	return nil
}
