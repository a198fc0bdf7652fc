package contenttype

import (
	"fmt"
	"strings"

	"mediamend/internal/config"
)

// NewSnifferFromConfig selects the configured sniffing backend.
func NewSnifferFromConfig(cfg *config.Config) (Sniffer, error) {
	if cfg == nil {
		return FiletypeSniffer{}, nil
	}
	switch strings.TrimSpace(cfg.Sniffer.Backend) {
	case "", config.SnifferFiletype:
		return FiletypeSniffer{}, nil
	case config.SnifferFile:
		return NewFileSniffer(cfg.FileBinary()), nil
	default:
		return nil, fmt.Errorf("unknown sniffer backend %q", cfg.Sniffer.Backend)
	}
}

// NewResolverFromConfig builds a resolver using the configured backend and
// extension overrides.
func NewResolverFromConfig(cfg *config.Config) (*Resolver, error) {
	sniffer, err := NewSnifferFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	var overrides map[string]string
	if cfg != nil {
		overrides = cfg.Normalize.Extensions
	}
	return NewResolver(sniffer, overrides), nil
}
