// Package config loads the run configuration from INPUT_* environment
// variables, as set by a GitHub Action, or from bound command flags.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Configuration keys. Each is read from INPUT_<KEY> with dashes turned into
// underscores, e.g. INPUT_WEBHOOK_URL.
const (
	KeyProvider          = "provider"
	KeyWebhookURL        = "webhook-url"
	KeyCoverageFile      = "coverage-file"
	KeyTestResults       = "test-results"
	KeyCoverageThreshold = "coverage-threshold"

	envPrefix = "input"
)

// DefaultCoverageThreshold is the whole percent a run needs to be good.
const DefaultCoverageThreshold = 65.0

// ErrMissingConfiguration is returned when a required value is not set.
var ErrMissingConfiguration = errors.New("required configuration values not found")

// Provider names a chat platform receiving the webhook.
type Provider string

const (
	ProviderDiscord Provider = "discord"
	ProviderSlack   Provider = "slack"
	ProviderTeams   Provider = "teams"
)

// SupportedProviders lists every Provider accepted by Load.
var SupportedProviders = []Provider{ProviderDiscord, ProviderSlack, ProviderTeams}

// InvalidProviderError is returned for a provider outside SupportedProviders.
type InvalidProviderError struct {
	Provider string
}

func (e *InvalidProviderError) Error() string {
	names := make([]string, 0, len(SupportedProviders))
	for _, p := range SupportedProviders {
		names = append(names, string(p))
	}
	return fmt.Sprintf("provider %q is not supported, use one of: %s", e.Provider, strings.Join(names, ", "))
}

// Config is the validated configuration of a notify run.
type Config struct {
	Provider          Provider
	WebhookURL        string
	CoverageFile      string
	TestResults       string
	CoverageThreshold float64
	Action            ActionInfo
}

// NewViper returns a viper instance reading INPUT_* variables with the
// defaults applied. Commands bind their flags on top of it.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyCoverageThreshold, DefaultCoverageThreshold)
	return v
}

// Load reads and validates the configuration.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Provider:     Provider(strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider)))),
		WebhookURL:   strings.TrimSpace(v.GetString(KeyWebhookURL)),
		CoverageFile: strings.TrimSpace(v.GetString(KeyCoverageFile)),
		TestResults:  strings.TrimSpace(v.GetString(KeyTestResults)),
		Action:       ActionInfoFromEnv(),
	}

	var missing []string
	for key, value := range map[string]string{
		KeyProvider:     string(cfg.Provider),
		KeyWebhookURL:   cfg.WebhookURL,
		KeyCoverageFile: cfg.CoverageFile,
	} {
		if value == "" {
			missing = append(missing, "INPUT_"+strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Wrap(ErrMissingConfiguration, strings.Join(missing, ", "))
	}

	if !isSupported(cfg.Provider) {
		return nil, &InvalidProviderError{Provider: string(cfg.Provider)}
	}

	threshold, err := parseThreshold(v.GetString(KeyCoverageThreshold))
	if err != nil {
		return nil, err
	}
	cfg.CoverageThreshold = threshold
	return cfg, nil
}

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if !isSupported(p) {
		return "", &InvalidProviderError{Provider: name}
	}
	return p, nil
}

func isSupported(p Provider) bool {
	for _, sp := range SupportedProviders {
		if sp == p {
			return true
		}
	}
	return false
}
