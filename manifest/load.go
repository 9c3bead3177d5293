package manifest

import (
	"os"

	"github.com/cockroachdb/errors"
)

// LoadFile reads one manifest, choosing the decoder by extension.
func LoadFile(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest")
	}
	return Parse(data, format, path)
}

// Load reads and merges manifests. Class names must be unique across all of
// them; a class may extend a class from another file.
func Load(paths ...string) (*Manifest, error) {
	if len(paths) == 0 {
		return nil, errors.Wrap(ErrInvalid, "no manifest files given")
	}
	merged := &Manifest{}
	seen := make(map[string]string)
	for _, path := range paths {
		m, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if merged.Schema == "" {
			merged.Schema = m.Schema
		}
		for _, c := range m.Classes {
			if prev, dup := seen[c.Name]; dup {
				return nil, errors.Wrapf(ErrDuplicateClass, "%s: %s already declared in %s", path, c.Name, prev)
			}
			seen[c.Name] = path
			merged.Classes = append(merged.Classes, c)
		}
	}
	return merged, nil
}
