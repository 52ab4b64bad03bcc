package main

import (
	"darwin/internal/config"
	darwinapi "darwin/pkg/darwin"
)

// loadRunParameters merges the optional TOML file with the flags that were
// set on the command line. Flags win.
func loadRunParameters(path string, flags config.Parameters) (config.Parameters, error) {
	if path == "" {
		return flags, nil
	}
	fromFile, err := config.LoadFile(path)
	if err != nil {
		return config.Parameters{}, err
	}
	return config.Overlay(fromFile, flags), nil
}

func runRequestFromParameters(runID string, params config.Parameters) darwinapi.RunRequest {
	return darwinapi.RunRequest{
		RunID:                  runID,
		InputFile:              params.InputFile,
		OutputFile:             params.OutputFile,
		ExtinctionThreshold:    params.ExtinctionThreshold,
		ProliferationThreshold: params.ProliferationThreshold,
		Generations:            params.Generations,
		PairsToCrossover:       params.PairsToCrossover,
	}
}
