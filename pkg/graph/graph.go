package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Encoding selects the on-disk dataset format.
type Encoding string

// Supported dataset encodings.
const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// EncodingForPath picks the encoding from a file extension. Unknown
// extensions default to JSON.
func EncodingForPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	}
	return EncodingJSON
}

// =============================================================================
// Dataset Serialization API
// =============================================================================

// MarshalDataset converts a dataset to indented JSON bytes.
func MarshalDataset(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDataset(ds, &buf, EncodingJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDatasetFile writes a dataset to path using the encoding implied by its
// extension.
func WriteDatasetFile(ds *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDataset(ds, f, EncodingForPath(path))
}

// WriteDataset encodes a dataset to w.
func WriteDataset(ds *Dataset, w io.Writer, enc Encoding) error {
	switch enc {
	case EncodingYAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(ds); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return e.Close()
	default:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		if err := e.Encode(ds); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	}
}

// ReadDatasetFile reads a dataset from a JSON or YAML file.
func ReadDatasetFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDataset(f, EncodingForPath(path))
}

// ReadDataset decodes a dataset from r. The result is not validated; see
// [Validate] and [Bind].
func ReadDataset(r io.Reader, enc Encoding) (*Dataset, error) {
	var ds Dataset
	switch enc {
	case EncodingYAML:
		if err := yaml.NewDecoder(r).Decode(&ds); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode yaml")
		}
	default:
		if err := json.NewDecoder(r).Decode(&ds); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode json")
		}
	}
	normalizeProps(&ds)
	return &ds, nil
}

// UnmarshalDataset decodes JSON bytes to a dataset.
func UnmarshalDataset(data []byte) (*Dataset, error) {
	return ReadDataset(bytes.NewReader(data), EncodingJSON)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the dataset's structural preconditions: both collections
// present, every node id usable and unique. Link endpoints are not checked
// here; [Bind] drops dangling links.
func Validate(ds *Dataset) error {
	if ds == nil {
		return errors.New(errors.ErrCodePrecondition, "dataset is nil")
	}
	if ds.Nodes == nil {
		return errors.New(errors.ErrCodePrecondition, "dataset has no nodes collection")
	}
	if ds.Links == nil {
		return errors.New(errors.ErrCodePrecondition, "dataset has no links collection")
	}

	seen := make(map[string]struct{}, len(ds.Nodes))
	for i := range ds.Nodes {
		id := ds.Nodes[i].ID
		if err := errors.ValidateNodeID(id); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate node id %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// normalizeProps converts YAML integers to float64 so properties decoded from
// either encoding have the same dynamic types.
func normalizeProps(ds *Dataset) {
	for i := range ds.Nodes {
		for k, v := range ds.Nodes[i].Properties {
			switch x := v.(type) {
			case int64:
				ds.Nodes[i].Properties[k] = float64(x)
			case int:
				ds.Nodes[i].Properties[k] = float64(x)
			}
		}
	}
}
