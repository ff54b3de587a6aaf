package tokenize

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// stopWordsDoc is the mapping form of a caller-supplied stop-word list: a
// top-level "stopWords" sequence. A bare YAML sequence of words is decoded
// separately, straight into a []string.
type stopWordsDoc struct {
	StopWords []string `yaml:"stopWords"`
}

// ParseStopWordsYAML decodes a stop-word list from YAML bytes, accepting
// either a flat sequence of words or a mapping with a "stopWords" key. It
// performs no file I/O; callers read the bytes themselves (from disk, an
// embedded asset, or anywhere else) so the package stays free of direct
// filesystem access.
func ParseStopWordsYAML(data []byte) (StopSet, error) {
	var words []string
	if err := yaml.Unmarshal(data, &words); err == nil && len(words) > 0 {
		return NewStopSet(words), nil
	}

	var doc stopWordsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse stop-word list: %w", err)
	}
	return NewStopSet(doc.StopWords), nil
}
