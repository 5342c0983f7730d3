// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the Genesys Cloud credentials and connection settings.
type Config struct {
	// Environment is the regional API domain, e.g. "mypurecloud.com"
	// or "sae1.pure.cloud". Endpoints are derived from it as
	// login.{Environment} and api.{Environment}.
	Environment  string
	ClientID     string
	ClientSecret string

	// SSLVerify disables TLS certificate verification when false.
	// Defaults to true.
	SSLVerify bool
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Genesys struct {
		Environment  string `yaml:"environment"`
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		// Kept as a string: an unset or ${VAR}-expanded-to-empty value
		// must fall back to the env var and default to true, which a
		// bool field cannot distinguish from an explicit false.
		SSLVerify string `yaml:"ssl_verify"`
	} `yaml:"genesys"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// falls back to environment variables for each setting. Missing required
// credentials is a fatal startup condition.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "config.yaml")

	var raw rawConfig
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand ${VAR} references in the YAML
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	case os.IsNotExist(err):
		// No config file — environment variables only
	default:
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	cfg := &Config{
		Environment:  firstNonEmpty(raw.Genesys.Environment, os.Getenv("ENVIRONMENT")),
		ClientID:     firstNonEmpty(raw.Genesys.ClientID, os.Getenv("CLIENT_ID")),
		ClientSecret: firstNonEmpty(raw.Genesys.ClientSecret, os.Getenv("CLIENT_SECRET")),
		SSLVerify:    parseSSLVerify(firstNonEmpty(raw.Genesys.SSLVerify, os.Getenv("SSL_VERIFY"))),
	}

	var missing []string
	if cfg.Environment == "" {
		missing = append(missing, "ENVIRONMENT")
	}
	if cfg.ClientID == "" {
		missing = append(missing, "CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		missing = append(missing, "CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s — set them in %s or the environment",
			strings.Join(missing, ", "), configPath)
	}

	return cfg, nil
}

// parseSSLVerify treats "false" and "0" as disabled; anything else,
// including empty, keeps verification enabled.
func parseSSLVerify(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "0":
		return false
	default:
		return true
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
