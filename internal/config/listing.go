package config

type Listing struct {
	// StrictFilters rejects unknown query fields instead of dropping them.
	StrictFilters bool `env:"LISTING_STRICT_FILTERS" envDefault:"true"`
}
