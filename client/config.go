package client

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/reoring/xmlskema/cielo"
	"github.com/reoring/xmlskema/xmldoc"
)

// Config holds the merchant credentials and protocol defaults.
type Config struct {
	ServiceURL          string        `yaml:"service_url"`
	EstablishmentNumber string        `yaml:"establishment_number"`
	EstablishmentKey    string        `yaml:"establishment_key"`
	Version             string        `yaml:"version"`
	Currency            string        `yaml:"currency"`
	Language            string        `yaml:"language"`
	Encoding            string        `yaml:"encoding"`
	Timeout             time.Duration `yaml:"timeout"`
	FormField           string        `yaml:"form_field"`
	// InstallmentType is the product used for more than one installment
	// when a request names none.
	InstallmentType string `yaml:"installment_type"`
	ReturnURL       string `yaml:"return_url"`
}

// DefaultConfig returns the sandbox configuration without credentials.
func DefaultConfig() Config {
	return Config{
		ServiceURL:      cielo.SandboxURL,
		Version:         cielo.ServiceVersion,
		Currency:        cielo.DefaultCurrency,
		Language:        cielo.DefaultLanguage,
		Encoding:        xmldoc.ISO88591,
		Timeout:         30 * time.Second,
		FormField:       DefaultFormField,
		InstallmentType: cielo.InstallmentByProcessor,
		ReturnURL:       "http://example.com",
	}
}

// ParseConfig reads YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse client config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read client config %s", path)
	}
	return ParseConfig(data)
}

// Validate reports missing or inconsistent settings.
func (c Config) Validate() error {
	switch {
	case c.ServiceURL == "":
		return errors.New("client config: service_url is required")
	case c.EstablishmentNumber == "" || c.EstablishmentKey == "":
		return errors.New("client config: establishment_number and establishment_key are required")
	case c.FormField == "":
		return errors.New("client config: form_field is required")
	case c.Timeout < 0:
		return errors.New("client config: timeout must not be negative")
	}
	switch c.InstallmentType {
	case cielo.InstallmentByStore, cielo.InstallmentByProcessor:
	default:
		return errors.Errorf("client config: installment_type must be %q or %q", cielo.InstallmentByStore, cielo.InstallmentByProcessor)
	}
	switch c.Encoding {
	case xmldoc.ISO88591, xmldoc.UTF8:
	default:
		return errors.Errorf("client config: unsupported encoding %q", c.Encoding)
	}
	return nil
}

func (c Config) establishment() cielo.Establishment {
	return cielo.Establishment{Number: c.EstablishmentNumber, Key: c.EstablishmentKey}
}
