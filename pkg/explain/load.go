package explain

import (
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/korinsic/surveillance-core/internal/apperrors"
)

// templatesDocument is the on-disk shape of the optional rationale-sentence
// template file: node name -> state index (as a string key, since YAML maps
// require string keys) -> sentence.
type templatesDocument struct {
	Templates map[string]map[string]string `mapstructure:"templates" yaml:"templates"`
}

// LoadTemplates reads a rationale-sentence override file (spec.md §4.10) from
// path. A missing file is wrapped in ErrNotFound so callers can fall back to
// the generic per-node sentence builder instead of treating an absent
// override file as fatal.
func LoadTemplates(path string) (Templates, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrNotFound, "explanation templates file %s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrConfigInvalid, "reading explanation templates from %s", path)
	}

	var doc templatesDocument
	if err := v.Unmarshal(&doc); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrConfigInvalid, "unmarshaling explanation templates from %s", path)
	}

	out := make(Templates, len(doc.Templates))
	for node, byState := range doc.Templates {
		states := make(map[int]string, len(byState))
		for stateKey, sentence := range byState {
			var state int
			if err := yaml.Unmarshal([]byte(stateKey), &state); err != nil {
				return nil, apperrors.Wrapf(err, apperrors.ErrConfigInvalid,
					"explanation templates: node %q has non-integer state key %q", node, stateKey)
			}
			states[state] = sentence
		}
		out[node] = states
	}
	return out, nil
}
