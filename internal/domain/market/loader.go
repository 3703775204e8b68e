package market

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// document is the on-disk registry layout.
type document struct {
	Version string       `koanf:"version"`
	Markets []Definition `koanf:"markets"`
}

// Load reads a YAML registry document from path and validates it.
func Load(_ context.Context, path string) (*Registry, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadRegistry, err)
	}

	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadRegistry, err)
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("%w: missing version", ErrLoadRegistry)
	}
	return NewRegistry(doc.Version, doc.Markets...)
}
