package coco

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ReadDocument decodes a COCO annotation file. Unknown keys are ignored.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode coco document")
	}
	return &doc, nil
}

// LoadDocument reads the COCO annotation file at path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open coco document")
	}
	defer f.Close()

	doc, err := ReadDocument(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return doc, nil
}

// WriteDocument encodes doc with two-space indentation. Nil tables are
// written as empty arrays.
func WriteDocument(w io.Writer, doc *Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	out := *doc
	if out.Licenses == nil {
		out.Licenses = []License{}
	}
	if out.Categories == nil {
		out.Categories = []Category{}
	}
	if out.Images == nil {
		out.Images = []Image{}
	}
	if out.Annotations == nil {
		out.Annotations = []Annotation{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return errors.Wrap(err, "encode coco document")
	}
	return nil
}

// SaveDocument writes doc to path, creating parent directories. The
// document is written to a temporary file next to path and renamed into
// place, so a failed write leaves any existing file untouched.
func SaveDocument(path string, doc *Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	f, err := os.CreateTemp(dir, ".coco-*.json")
	if err != nil {
		return errors.Wrap(err, "create coco document")
	}
	tmp := f.Name()

	if err := WriteDocument(f, doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "save %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "close coco document")
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "chmod coco document")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
