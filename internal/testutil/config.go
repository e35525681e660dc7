package testutil

import (
	"os"

	"github.com/guarzo/resaleprice/internal/ebay"
)

const (
	// Test credential environment variables
	TestEbayClientID     = "TEST_EBAY_CLIENT_ID"
	TestEbayClientSecret = "TEST_EBAY_CLIENT_SECRET"

	// Default test values when environment variables are not set
	DefaultTestClientID = "test-client"
	DefaultTestSecret   = "test-secret"
)

// GetTestToken returns a value from envVar or defaultValue
func GetTestToken(envVar, defaultValue string) string {
	if token := os.Getenv(envVar); token != "" {
		return token
	}
	return defaultValue
}

// EbayCredentials returns client credentials aimed at tokenURL, usually an
// httptest server.
func EbayCredentials(tokenURL string) ebay.Credentials {
	return ebay.Credentials{
		ClientID:     GetTestToken(TestEbayClientID, DefaultTestClientID),
		ClientSecret: GetTestToken(TestEbayClientSecret, DefaultTestSecret),
		TokenURL:     tokenURL,
		Scope:        "https://api.ebay.com/oauth/api_scope",
	}
}
