/*
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

package api_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nscaledev/books-api-tests/test/api"
)

//nolint:gochecknoglobals
var configKeys = []string{
	"API_BASE_URL",
	"API_AUTH_TOKEN",
	"REQUEST_TIMEOUT",
	"TEST_TIMEOUT",
	"TEST_RETRIES",
	"JUNIT_REPORT_PATH",
	"JSON_REPORT_PATH",
	"TEST_USER_EMAIL",
	"TEST_USER_PASSWORD",
	"TOKEN_CACHING",
	"VALIDATE_RESPONSES",
	"STUB_KNOWN_DEFECTS",
	"SKIP_INTEGRATION",
	"DEBUG_LOGGING",
	"LOG_REQUESTS",
	"LOG_RESPONSES",
}

func clearConfig(t *testing.T) {
	t.Helper()

	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadTestConfigDefaults(t *testing.T) {
	clearConfig(t)

	config, err := api.LoadTestConfig()
	require.NoError(t, err)
	require.True(t, config.UsesStub())
	require.Equal(t, 30*time.Second, config.RequestTimeout)
	require.Equal(t, 5*time.Minute, config.TestTimeout)
	require.Equal(t, 1, config.Retries)
	require.True(t, config.TokenCaching)
	require.True(t, config.StubKnownDefects)
	require.False(t, config.ValidateResponses)
	require.False(t, config.SkipIntegration)
}

func TestLoadTestConfigOverrides(t *testing.T) {
	clearConfig(t)

	t.Setenv("API_BASE_URL", "http://localhost:8000/")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("TEST_RETRIES", "0")
	t.Setenv("TOKEN_CACHING", "false")
	t.Setenv("VALIDATE_RESPONSES", "true")
	t.Setenv("TEST_USER_EMAIL", "qa@example.com")
	t.Setenv("TEST_USER_PASSWORD", "SecurePass123!")

	config, err := api.LoadTestConfig()
	require.NoError(t, err)
	require.False(t, config.UsesStub())
	require.Equal(t, "http://localhost:8000", config.BaseURL)
	require.Equal(t, 5*time.Second, config.RequestTimeout)
	require.Equal(t, 0, config.Retries)
	require.False(t, config.TokenCaching)
	require.True(t, config.ValidateResponses)
	require.Equal(t, api.Credential{Email: "qa@example.com", Password: "SecurePass123!"}, config.RunCredential())
}

func TestLoadTestConfigDebugLogging(t *testing.T) {
	clearConfig(t)

	t.Setenv("DEBUG_LOGGING", "true")

	config, err := api.LoadTestConfig()
	require.NoError(t, err)
	require.True(t, config.LogRequests)
	require.True(t, config.LogResponses)
}

// TestLoadTestConfigUnparseable ensures garbage falls back to defaults.
func TestLoadTestConfigUnparseable(t *testing.T) {
	clearConfig(t)

	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("TEST_RETRIES", "many")
	t.Setenv("TOKEN_CACHING", "perhaps")

	config, err := api.LoadTestConfig()
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, config.RequestTimeout)
	require.Equal(t, 1, config.Retries)
	require.True(t, config.TokenCaching)
}

func TestLoadTestConfigInvalid(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"relative URL":      {"API_BASE_URL": "localhost"},
		"negative retries":  {"TEST_RETRIES": "-1"},
		"zero timeout":      {"REQUEST_TIMEOUT": "0s"},
		"email no password": {"TEST_USER_EMAIL": "qa@example.com"},
	} {
		t.Run(name, func(t *testing.T) {
			clearConfig(t)

			for key, value := range env {
				t.Setenv(key, value)
			}

			_, err := api.LoadTestConfig()
			require.Error(t, err)
		})
	}
}

func TestRunCredentialGenerated(t *testing.T) {
	t.Parallel()

	config := &api.TestConfig{}

	first := config.RunCredential()
	second := config.RunCredential()

	require.NotEqual(t, first.Email, second.Email)
	require.Equal(t, api.DefaultPassword, first.Password)
}
