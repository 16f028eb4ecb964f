package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pipeviz/pipeviz/pkg/errors"
)

// Load reads and parses a single YAML document from path.
// No include resolution or defaulting happens here; this layer is purely
// syntactic. An empty document yields an absent value.
//
// Returns an error with code FILE_NOT_FOUND when the file does not exist,
// or CONFIG_PARSE when it cannot be read or is not valid YAML.
func Load(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Value{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Value{}, errors.Wrap(errors.ErrCodeConfigParse, err, "cannot read %s", path)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, errors.Wrap(errors.ErrCodeConfigParse, err, "invalid YAML in %s", path)
	}
	return fromNode(&root), nil
}
