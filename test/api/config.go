/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type TestConfig struct {
	// BaseURL is the books service under test, when empty the suites start
	// an in-process stub and point at that instead.
	BaseURL           string
	AuthToken         string
	RequestTimeout    time.Duration
	TestTimeout       time.Duration
	Retries           int
	JUnitReportPath   string
	JSONReportPath    string
	UserEmail         string
	UserPassword      string
	TokenCaching      bool
	ValidateResponses bool
	StubKnownDefects  bool
	SkipIntegration   bool
	DebugLogging      bool
	LogRequests       bool
	LogResponses      bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if configuration values are present but unusable.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		BaseURL:           strings.TrimSuffix(os.Getenv("API_BASE_URL"), "/"),
		AuthToken:         os.Getenv("API_AUTH_TOKEN"),
		RequestTimeout:    getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:       getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute),
		Retries:           getIntWithDefault("TEST_RETRIES", 1),
		JUnitReportPath:   os.Getenv("JUNIT_REPORT_PATH"),
		JSONReportPath:    os.Getenv("JSON_REPORT_PATH"),
		UserEmail:         os.Getenv("TEST_USER_EMAIL"),
		UserPassword:      os.Getenv("TEST_USER_PASSWORD"),
		TokenCaching:      getBoolWithDefault("TOKEN_CACHING", true),
		ValidateResponses: getBoolWithDefault("VALIDATE_RESPONSES", false),
		StubKnownDefects:  getBoolWithDefault("STUB_KNOWN_DEFECTS", true),
		SkipIntegration:   getBoolWithDefault("SKIP_INTEGRATION", false),
		DebugLogging:      getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:       getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:      getBoolWithDefault("LOG_RESPONSES", false),
	}

	// Debug logging turns on all request tracing.
	if config.DebugLogging {
		config.LogRequests = true
		config.LogResponses = true
	}

	if err := validateFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// UsesStub tells whether the suites need to provide their own service.
func (c *TestConfig) UsesStub() bool {
	return c.BaseURL == ""
}

// RunCredential returns the credential configured for the run, or a freshly
// generated one when none is configured.
func (c *TestConfig) RunCredential() Credential {
	if c.UserEmail != "" && c.UserPassword != "" {
		return Credential{
			Email:    c.UserEmail,
			Password: c.UserPassword,
		}
	}

	return GenerateCredential()
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getIntWithDefault gets an integer from environment variable or returns default.
func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env", // From test/api/suites directory
		"../.env",    // From test/api directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Variables already in the environment take precedence.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateFields checks that the configuration values that are set make sense.
func validateFields(config *TestConfig) error {
	var problems []string

	if config.BaseURL != "" {
		u, err := url.Parse(config.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, "API_BASE_URL must be an absolute URL")
		}
	}

	if config.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}

	if config.Retries < 0 {
		problems = append(problems, "TEST_RETRIES must not be negative")
	}

	if (config.UserEmail == "") != (config.UserPassword == "") {
		problems = append(problems, "TEST_USER_EMAIL and TEST_USER_PASSWORD must be set together")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s. Please fix these environment variables or the .env file", strings.Join(problems, "; "))
	}

	return nil
}
