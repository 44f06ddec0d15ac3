// Package planfile reads and writes the JSON plan document format.
package planfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"plan-editor/internal/plan"
)

// Version is the format version written by Encode.
const Version = 1

var (
	// ErrMalformed is returned when a payload cannot be parsed.
	ErrMalformed = errors.New("malformed plan file")
	// ErrUnsupportedVersion flags a payload written with another version.
	// Such payloads are still decoded.
	ErrUnsupportedVersion = errors.New("unsupported plan file version")
)

// Background describes the plan image. Src is a file path, a file:// URI
// or a data: URL.
type Background struct {
	Src           string `json:"src"`
	NaturalWidth  int    `json:"naturalWidth"`
	NaturalHeight int    `json:"naturalHeight"`
}

// File is the on-disk payload. On decode, nil pointers mark fields absent
// from the input; callers keep their current value for those.
type File struct {
	BG      *Background    `json:"bg"`
	Data    *plan.Document `json:"data"`
	Snap    *float64       `json:"snap"`
	Version int            `json:"version"`
}

// New builds a complete payload for saving.
func New(doc plan.Document, bg Background, snap float64) File {
	doc = doc.Normalize()
	return File{
		BG:      &bg,
		Data:    &doc,
		Snap:    &snap,
		Version: Version,
	}
}

// HasBackground reports whether the payload carries a usable background
// source.
func (f File) HasBackground() bool {
	return f.BG != nil && f.BG.Src != ""
}

// CheckVersion returns ErrUnsupportedVersion for anything but Version.
func (f File) CheckVersion() error {
	if f.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	return nil
}

// Encode writes f as indented JSON.
func Encode(w io.Writer, f File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return nil
}

// Decode parses a payload. Every top-level field is optional; a document
// present in the payload is normalized.
func Decode(r io.Reader) (File, error) {
	var f File
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// The payload must be a single JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after the plan object")
		}
		return File{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if f.Data != nil {
		doc := f.Data.Normalize()
		f.Data = &doc
	}
	return f, nil
}

// Load reads and decodes a plan file from disk.
func Load(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to open plan: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Save encodes f to path, replacing any existing file.
func Save(path string, f File) error {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	if err := Encode(fh, f); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
