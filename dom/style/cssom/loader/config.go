package loader

import (
	"fmt"
	"io"
	"net/url"

	"github.com/npillmayer/stylo/dom/style/cssom"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of a Loader.
type Config struct {
	BaseURL           string `yaml:"base_url"`
	CompatMode        string `yaml:"compat_mode"`
	CORS              string `yaml:"cors"`
	ReferrerPolicy    string `yaml:"referrer_policy"`
	Principal         string `yaml:"principal"`
	PreferredTitle    string `yaml:"preferred_title"`
	ValidateSelectors bool   `yaml:"validate_selectors"`
	MaxImportDepth    int    `yaml:"max_import_depth"`
}

// DefaultImportDepth limits the nesting of @import rules if the
// configuration does not say otherwise.
const DefaultImportDepth = 8

// DefaultConfig returns a configuration for a loader reading sheets
// relative to file:///.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "file:///",
		ValidateSelectors: true,
		MaxImportDepth:    DefaultImportDepth,
	}
}

// ReadConfig reads a YAML configuration. Settings missing from the input
// keep their default values.
func ReadConfig(r io.Reader) (Config, error) {
	conf := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&conf); err != nil && err != io.EOF {
		return conf, fmt.Errorf("loader: cannot read configuration: %w", err)
	}
	if _, err := conf.resolve(); err != nil {
		return conf, err
	}
	return conf, nil
}

// settings is the checked form of a Config.
type settings struct {
	base      *url.URL
	compat    cssom.CompatMode
	cors      cssom.CORSMode
	referrer  cssom.ReferrerPolicy
	principal string
	preferred string
	maxDepth  int
	validate  bool
}

func (conf Config) resolve() (settings, error) {
	var s settings
	var err error
	if s.base, err = url.Parse(conf.BaseURL); err != nil {
		return s, fmt.Errorf("loader: invalid base URL: %w", err)
	}
	if !s.base.IsAbs() {
		return s, &cssom.ValueError{Type: "BaseURL", Value: conf.BaseURL}
	}
	if s.compat, err = cssom.ParseCompatMode(conf.CompatMode); err != nil {
		return s, err
	}
	if s.cors, err = cssom.ParseCORSMode(conf.CORS); err != nil {
		return s, err
	}
	if s.referrer, err = cssom.ParseReferrerPolicy(conf.ReferrerPolicy); err != nil {
		return s, err
	}
	s.principal = conf.Principal
	if s.principal == "" {
		s.principal = origin(s.base)
	}
	s.preferred = conf.PreferredTitle
	s.maxDepth = conf.MaxImportDepth
	if s.maxDepth <= 0 {
		s.maxDepth = DefaultImportDepth
	}
	s.validate = conf.ValidateSelectors
	return s, nil
}

func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}
