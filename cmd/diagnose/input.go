package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"resolution-diagnostic/internal/common/validation"
	"resolution-diagnostic/internal/diagnostic"
)

// loadInput reads a questionnaire from path, or stdin when path is "-".
// YAML and JSON are both accepted; JSON is parsed as YAML.
func loadInput(path string, stdin io.Reader) (diagnostic.Input, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return diagnostic.Input{}, fmt.Errorf("read input: %w", err)
	}
	return parseInput(raw)
}

func parseInput(raw []byte) (diagnostic.Input, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return diagnostic.Input{}, fmt.Errorf("parse input: %w", err)
	}
	if doc == nil {
		return diagnostic.Input{}, fmt.Errorf("parse input: empty document")
	}

	res, err := validation.MustLoad(validation.DiagnosticInput).Validate(doc)
	if err != nil {
		return diagnostic.Input{}, fmt.Errorf("validate input: %w", err)
	}
	if !res.Valid {
		return diagnostic.Input{}, fmt.Errorf("invalid input: %s", strings.Join(res.GetErrorMessages(), "; "))
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return diagnostic.Input{}, fmt.Errorf("encode input: %w", err)
	}
	var in diagnostic.Input
	if err := json.Unmarshal(body, &in); err != nil {
		return diagnostic.Input{}, fmt.Errorf("decode input: %w", err)
	}
	return in, nil
}
