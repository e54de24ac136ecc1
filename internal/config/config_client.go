package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultServerURL      = "http://localhost:8080"
	defaultAdapterTimeout = 15 * time.Second

	credentialFileName = "credential"
)

// ClientAdapter holds network settings used by the client transport layer
// and the push channel.
type ClientAdapter struct {
	// ServerURL is the REST base URL of the inventory server.
	ServerURL string
	// WSURL is the websocket push endpoint.
	WSURL string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientSession holds credential persistence settings for the client.
type ClientSession struct {
	// CredentialPath is the single named slot the bearer token lives in.
	CredentialPath string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Session contains credential persistence settings.
	Session ClientSession
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the console runtime, derives the websocket URL from the server
// URL when none is given, and resolves the default credential path under
// os.UserConfigDir.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	wsURL := cfg.Adapter.WSURL
	if wsURL == "" {
		wsURL, err = deriveWSURL(cfg.Adapter.ServerURL)
		if err != nil {
			return nil, fmt.Errorf("derive ws url: %w", err)
		}
	}

	credentialPath := cfg.Session.CredentialPath
	if credentialPath == "" {
		credentialPath, err = defaultCredentialPath()
		if err != nil {
			return nil, fmt.Errorf("resolve credential path: %w", err)
		}
	}

	return &ClientConfig{
		Adapter: ClientAdapter{
			ServerURL:      cfg.Adapter.ServerURL,
			WSURL:          wsURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Session: ClientSession{
			CredentialPath: credentialPath,
		},
	}, nil
}

// deriveWSURL maps the REST base URL onto the push endpoint:
// http -> ws, https -> wss, path fixed to /ws.
func deriveWSURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"

	return u.String(), nil
}

func defaultCredentialPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vm-console", credentialFileName), nil
}
