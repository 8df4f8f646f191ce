package mapper

import (
	"fmt"

	"shape-mapper/config"
)

// NewFromConfig creates a mapper with the settings, conversion categories
// and logger described by cfg. opts are applied afterwards and win.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Mapper, error) {
	conversions, err := cfg.Mapping.Categories()
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Logging.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	base := []Option{
		WithLogger(logger.Named("mapper")),
		WithRequireInitialize(cfg.Mapping.RequireInitialize),
		WithNullSafeDefault(cfg.Mapping.NullSafe),
		WithNormalizedNames(cfg.Mapping.NormalizedNames),
		WithFlattening(cfg.Mapping.Flattening),
		WithConversions(conversions),
	}

	return New(append(base, opts...)...), nil
}
