// Package config loads the proxy's environment-driven configuration
// (spec.md §6.3), using viper's AutomaticEnv the way the teacher's own
// sso-idp wires its defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	BaseURL            string
	EntityID           string
	IDPCertPath        string
	IDPKeyPath         string
	MDQSigningCertPath string
	Host               string
	Port               uint16
	LogLevel           string
	StaticDir          string
	AggregateURL       string
	MDQBaseURL         string
	ShutdownTimeout    time.Duration
}

func init() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("SAML_PROXY")
	viper.AutomaticEnv()

	viper.SetDefault("mdq_signing_cert_path", "certs/incommon-mdq.pem")
	viper.SetDefault("host", "0.0.0.0")
	viper.SetDefault("port", 8443)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("static_dir", "static")
	viper.SetDefault("aggregate_url", "https://mdq.incommon.org/entities")
	viper.SetDefault("mdq_base_url", "https://mdq.incommon.org")
	viper.SetDefault("shutdown_timeout", 10*time.Second)
}

// Load reads configuration from the environment (via viper) and validates
// that every required field is present.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:            viper.GetString("base_url"),
		EntityID:           viper.GetString("entity_id"),
		IDPCertPath:        viper.GetString("idp_cert_path"),
		IDPKeyPath:         viper.GetString("idp_key_path"),
		MDQSigningCertPath: viper.GetString("mdq_signing_cert_path"),
		Host:               viper.GetString("host"),
		Port:               uint16(viper.GetUint("port")),
		LogLevel:           viper.GetString("log_level"),
		StaticDir:          viper.GetString("static_dir"),
		AggregateURL:       viper.GetString("aggregate_url"),
		MDQBaseURL:         viper.GetString("mdq_base_url"),
		ShutdownTimeout:    viper.GetDuration("shutdown_timeout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "SAML_PROXY_BASE_URL")
	}
	if c.EntityID == "" {
		missing = append(missing, "SAML_PROXY_ENTITY_ID")
	}
	if c.IDPCertPath == "" {
		missing = append(missing, "SAML_PROXY_IDP_CERT_PATH")
	}
	if c.IDPKeyPath == "" {
		missing = append(missing, "SAML_PROXY_IDP_KEY_PATH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// SSOURL is the proxy's own IdP-facing SSO endpoint (spec.md §4.8).
func (c *Config) SSOURL() string { return c.BaseURL + "/saml/sso" }

// ACSURL is the proxy's own SP-facing ACS endpoint (spec.md §4.8).
func (c *Config) ACSURL() string { return c.BaseURL + "/sp/acs" }

// SLOURL is the proxy's own SP-facing SLO endpoint (spec.md §4.8).
func (c *Config) SLOURL() string { return c.BaseURL + "/sp/slo" }

// IDPMetadataURL is the proxy's own IdP-facing metadata endpoint.
func (c *Config) IDPMetadataURL() string { return c.BaseURL + "/saml/metadata" }

// SPMetadataURL is the proxy's own SP-facing metadata endpoint.
func (c *Config) SPMetadataURL() string { return c.BaseURL + "/sp/metadata" }

// Addr is the host:port the HTTP server binds to.
func (c *Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
