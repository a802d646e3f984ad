// Package config provides configuration management for the HappyTools
// HTTP client and command line.
//
// # Basic Configuration
//
// The only required field is the base URL of the web API:
//
//	cfg := &config.Config{
//		BaseURL: "https://api.example.com/api/",
//		UserID:  "42",
//	}
//
// # Authentication
//
// When Token.URL is set, the client fetches an OAuth2 bearer token from it
// and caches it until it expires. The grant type defaults to "password" when
// Username is set and to "client_credentials" otherwise:
//
//	cfg.Token = config.TokenConfig{
//		URL:      "https://api.example.com/token",
//		Username: "ali",
//		Password: "YOUR_PASSWORD",
//		Skew:     30 * time.Second,
//	}
//
// # Compression
//
// Requests advertise Accept-Encoding: gzip, deflate and responses are
// decoded transparently. Request bodies of at least Compression.MinSize
// bytes are gzip encoded. Set Compression.Disabled to turn both off.
//
// # Timeouts
//
//	cfg.Timeouts = config.Timeouts{
//		Request:    100 * time.Second, // per HTTP request
//		TokenFetch: 30 * time.Second,  // token endpoint
//		Publish:    30 * time.Second,  // event bus publish
//	}
//
// Zero values are replaced with defaults via WithDefaults().
//
// # Files and Environment
//
// Load reads a YAML (.yaml, .yml) or JSON (.json) file and then applies the
// HAPPYTOOLS_* environment variables:
//
//	HAPPYTOOLS_BASE_URL, HAPPYTOOLS_USER_ID, HAPPYTOOLS_DEBUG,
//	HAPPYTOOLS_TOKEN_URL, HAPPYTOOLS_CLIENT_ID, HAPPYTOOLS_CLIENT_SECRET
//
// # Validation
//
// Always call Validate() (Load does it for you) to apply defaults and check
// the URLs:
//
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid config: %v", err)
//	}
package config
