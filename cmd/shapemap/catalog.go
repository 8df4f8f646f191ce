package main

import (
	"errors"
	"fmt"

	"shape-mapper/config"
	"shape-mapper/internal/fixtures"
	"shape-mapper/mapper"
	"shape-mapper/profile"
)

// catalogTypes are the types profiles may name.
func catalogTypes() mapper.TypeSet {
	return mapper.Types(
		fixtures.Order{}, fixtures.OrderDTO{},
		fixtures.Customer{}, fixtures.CustomerDTO{},
		fixtures.Address{}, fixtures.AddressDTO{},
		fixtures.OrderItem{}, fixtures.OrderItemDTO{},
	)
}

// registerCatalog creates the default configurations of the catalog.
func registerCatalog(m *mapper.Mapper) {
	mapper.CreateMap[fixtures.Order, fixtures.OrderDTO](m)
	mapper.CreateMap[fixtures.Customer, fixtures.CustomerDTO](m)
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	cfg.Profiles = append(cfg.Profiles, o.profiles...)

	return cfg, nil
}

// buildMapper creates the catalog mapper with every profile applied. The
// mapper is returned initialized even when some configurations are broken,
// together with the joined errors.
func buildMapper(cfg *config.Config) (*mapper.Mapper, error) {
	m, err := mapper.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	registerCatalog(m)

	types := catalogTypes()

	var errs []error

	for _, path := range cfg.Profiles {
		f, err := profile.LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := mapper.ApplyProfile(m, f, types); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}

	if err := m.Initialize(); err != nil {
		errs = append(errs, err)
	}

	return m, errors.Join(errs...)
}
