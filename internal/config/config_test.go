package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func validParameters() Parameters {
	return Parameters{
		InputFile:              "in.txt",
		OutputFile:             "out.txt",
		ExtinctionThreshold:    0.2,
		ProliferationThreshold: 0.8,
		Generations:            10,
		PairsToCrossover:       3,
	}
}

func TestValidateAcceptsValidParameters(t *testing.T) {
	if err := validParameters().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateReportsField(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*Parameters)
	}{
		{"input_file", func(p *Parameters) { p.InputFile = "" }},
		{"output_file", func(p *Parameters) { p.OutputFile = " " }},
		{"extinction_threshold", func(p *Parameters) { p.ExtinctionThreshold = 0 }},
		{"extinction_threshold", func(p *Parameters) { p.ExtinctionThreshold = 1.5 }},
		{"proliferation_threshold", func(p *Parameters) { p.ProliferationThreshold = -0.1 }},
		{"generations", func(p *Parameters) { p.Generations = 0 }},
		{"pairs_to_crossover", func(p *Parameters) { p.PairsToCrossover = -2 }},
	}
	for _, tc := range cases {
		params := validParameters()
		tc.mutate(&params)

		err := params.Validate()
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("%s: expected configuration error, got %v", tc.field, err)
		}
		if cfgErr.Field != tc.field {
			t.Fatalf("expected field %s, got %s", tc.field, cfgErr.Field)
		}
	}
}

func TestLoadFileAndOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darwin.toml")
	data := `
input_file = "population.txt"
output_file = "evolved.txt"
extinction_threshold = 0.3
proliferation_threshold = 0.7
generations = 50
pairs_to_crossover = 4
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fromFile, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fromFile.Generations != 50 || fromFile.InputFile != "population.txt" {
		t.Fatalf("unexpected parameters: %+v", fromFile)
	}

	merged := Overlay(fromFile, Parameters{Generations: 5, OutputFile: "other.txt"})
	if merged.Generations != 5 || merged.OutputFile != "other.txt" {
		t.Fatalf("flags did not override file: %+v", merged)
	}
	if merged.PairsToCrossover != 4 || merged.ExtinctionThreshold != 0.3 {
		t.Fatalf("file values lost: %+v", merged)
	}

	m := merged.Model()
	if m.Generations != 5 || m.ProliferationThreshold != 0.7 {
		t.Fatalf("unexpected model parameters: %+v", m)
	}
}

func TestLoadFileRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darwin.toml")
	if err := os.WriteFile(path, []byte("generations = 3\nmutation_rate = 0.5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadFile(path)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "mutation_rate" {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
