package tutil

import (
	"os"
	"strings"
	"testing"
)

// IsIntegrationTest is true when RETS_TEST=integration, which enables tests
// that talk to a live RETS server.
func IsIntegrationTest() bool {
	return strings.ToLower(os.Getenv("RETS_TEST")) == "integration"
}

// LiveLoginURL returns the login url of the live server integration tests
// run against, skipping t when integration tests are off or no url is set.
func LiveLoginURL(t *testing.T) string {
	t.Helper()

	if !IsIntegrationTest() {
		t.Skip("set RETS_TEST=integration to run against a live server")
	}

	loginURL := os.Getenv("RETS_TEST_LOGIN_URL")
	if loginURL == "" {
		t.Skip("RETS_TEST_LOGIN_URL is not set")
	}

	return loginURL
}
