package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-teamsheet/internal/model"
)

// ReadSheet decodes one teamsheet from YAML. Unknown keys are rejected so a typo in a field
// name is not silently dropped.
func ReadSheet(r io.Reader) (model.Teamsheet, error) {
	var sheet model.Teamsheet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sheet); err != nil {
		if err == io.EOF {
			return sheet, fmt.Errorf("%w: empty teamsheet file", model.ErrValidation)
		}
		return sheet, fmt.Errorf("decoding teamsheet: %w", err)
	}
	return sheet, nil
}

// ReadSheetFile reads a YAML teamsheet from path.
func ReadSheetFile(path string) (model.Teamsheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Teamsheet{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ReadSheet(bytes.NewReader(data))
}

// WriteSheet encodes a teamsheet as YAML with two-space indentation.
func WriteSheet(w io.Writer, sheet model.Teamsheet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sheet); err != nil {
		return fmt.Errorf("encoding teamsheet: %w", err)
	}
	return enc.Close()
}
