package dataset

import (
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Logical dataset names.
const (
	Overview        = "overview"
	Users           = "users"
	AffiliateFee    = "affiliate_fee"
	AffiliateVolume = "affiliate_volume"
)

// Location of a dataset object inside the configured bucket.
type Location struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

type Registry struct {
	locations map[string]Location
}

func DefaultLocations() map[string]Location {
	return map[string]Location{
		Overview:        {File: "thorchain_overview.csv"},
		Users:           {File: "thorchain_users.csv"},
		AffiliateFee:    {File: "thorchain_affiliate_fee.csv"},
		AffiliateVolume: {File: "thorchain_affiliate_volume.csv"},
	}
}

func NewRegistry(locations map[string]Location) *Registry {
	r := &Registry{locations: make(map[string]Location, len(locations))}
	for name, location := range locations {
		r.locations[name] = location
	}
	return r
}

func DefaultRegistry() *Registry {
	return NewRegistry(DefaultLocations())
}

type registryFile struct {
	Datasets map[string]Location `yaml:"datasets"`
}

// LoadRegistry reads dataset locations from a yaml file on top of the defaults.
//
//	datasets:
//	  overview:
//	    dir: extracts/2025
//	    file: overview.csv
func LoadRegistry(path string) (*Registry, error) {
	registry := DefaultRegistry()
	if path == "" {
		return registry, nil
	}

	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset registry %s", path)
	}

	var file registryFile
	if err := yaml.UnmarshalStrict(content, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse dataset registry %s", path)
	}
	for name, location := range file.Datasets {
		if location.File == "" {
			return nil, fmt.Errorf("dataset %s has no file in registry %s", name, path)
		}
		registry.locations[name] = location
	}
	return registry, nil
}

func (r *Registry) Resolve(name string) (Location, bool) {
	location, ok := r.locations[name]
	return location, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.locations))
	for name := range r.locations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
