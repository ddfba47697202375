// Package config provides secure configuration management for the toptracks application.
//
// This package handles loading configuration from environment variables and .env files
// with built-in security measures to prevent path traversal attacks. It uses the
// github.com/caarlos0/env library for environment variable parsing and
// github.com/joho/godotenv for .env file loading.
//
// The configuration loading follows a priority order:
//  1. Environment variables (highest priority)
//  2. .env file in current working directory
//  3. Build-time and struct tag defaults
//
// Example usage:
//
//	import "github.com/toozej/toptracks/pkg/config"
//
//	func main() {
//		conf := config.GetEnvVars()
//		fmt.Printf("Client ID: %s\n", conf.Spotify.ClientID)
//	}
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// DefaultClientID is the Spotify application identifier compiled into the binary.
// It is set at build time with:
//
//	-ldflags "-X github.com/toozej/toptracks/pkg/config.DefaultClientID=<id>"
//
// SPOTIFY_CLIENT_ID overrides it at runtime.
var DefaultClientID = ""

// Config represents the main application configuration with nested service configurations.
type Config struct {
	Spotify SpotifyConfig `envPrefix:"SPOTIFY_"`
	Server  ServerConfig  `envPrefix:"SERVER_"`
}

// SpotifyConfig represents the configuration for Spotify API integration.
//
// The implicit grant needs no client secret: only the application identifier
// and the registered redirect URI.
type SpotifyConfig struct {
	// ClientID is the Spotify application client ID.
	ClientID string `env:"CLIENT_ID"`

	// RedirectURL is the callback URL registered with the Spotify application.
	RedirectURL string `env:"REDIRECT_URI" envDefault:"http://127.0.0.1:8080/callback"`

	// APIBaseURL is the root of the Spotify Web API. It must end with a slash.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"https://api.spotify.com/v1/"`

	// TokenFilePath is where the session credential is kept.
	// If not specified, a file in a private per-user directory is used:
	// $XDG_RUNTIME_DIR/toptracks when set, otherwise the user cache directory.
	TokenFilePath string `env:"TOKEN_FILE_PATH"`

	// ShowDialog forces Spotify to show the consent dialog on every login.
	ShowDialog bool `env:"SHOW_DIALOG" envDefault:"true"`

	// PlaylistPublic controls the visibility of created playlists.
	PlaylistPublic bool `env:"PLAYLIST_PUBLIC" envDefault:"true"`
}

// ServerConfig represents the loopback callback server configuration.
type ServerConfig struct {
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port int    `env:"PORT" envDefault:"8080"`
}

// GetEnvVars loads and returns the application configuration from environment
// variables and .env files.
//
// The function will terminate the program with os.Exit(1) if any critical
// errors occur during configuration loading, such as:
//   - Current directory access failures
//   - Path traversal attempts detected
//   - .env file parsing errors
//   - Environment variable parsing failures
//   - Configuration validation errors
func GetEnvVars() Config {
	conf, err := Load()
	if err != nil {
		fmt.Printf("Configuration error: %s\n", err)
		fmt.Println("Please check your configuration and try again.")
		os.Exit(1)
	}
	return conf
}

// Load reads the .env file from the current working directory (if present),
// parses the environment into a Config and validates it.
func Load() (Config, error) {
	// Get current working directory for secure file operations
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("error getting current working directory: %w", err)
	}

	// Construct secure path for .env file within current directory
	envPath := filepath.Join(cwd, ".env")

	// Ensure the path is within our expected directory (prevent traversal)
	cleanEnvPath, err := filepath.Abs(envPath)
	if err != nil {
		return Config{}, fmt.Errorf("error resolving .env file path: %w", err)
	}
	cleanCwd, err := filepath.Abs(cwd)
	if err != nil {
		return Config{}, fmt.Errorf("error resolving current directory: %w", err)
	}
	relPath, err := filepath.Rel(cleanCwd, cleanEnvPath)
	if err != nil || strings.Contains(relPath, "..") {
		return Config{}, fmt.Errorf(".env file path traversal detected")
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return Config{}, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	var conf Config
	if err := env.Parse(&conf); err != nil {
		return Config{}, fmt.Errorf("error parsing configuration from environment: %w", err)
	}

	if conf.Spotify.ClientID == "" {
		conf.Spotify.ClientID = DefaultClientID
	}

	if err := validateConfig(&conf); err != nil {
		return Config{}, err
	}

	return conf, nil
}

// Address returns the server address
func (s ServerConfig) Address() string {
	if s.Host == "" {
		s.Host = "127.0.0.1"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CallbackPath returns the path component of the redirect URL, defaulting to /callback.
func (s SpotifyConfig) CallbackPath() string {
	u, err := url.Parse(s.RedirectURL)
	if err != nil || u.Path == "" {
		return "/callback"
	}
	return u.Path
}

// GetTokenFilePath returns the resolved token file path, handling tilde expansion
// and ensuring the directory exists.
//
// The default directory is created with mode 0700 and rejected with
// ErrInsecureTokenDir unless it is a real directory owned by the current user
// that nobody else can access.
func (s SpotifyConfig) GetTokenFilePath() (string, error) {
	tokenPath := s.TokenFilePath
	useDefault := tokenPath == ""
	if useDefault {
		dir, err := defaultTokenDir()
		if err != nil {
			return "", err
		}
		tokenPath = filepath.Join(dir, "session_token.json")
	}

	if strings.HasPrefix(tokenPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		tokenPath = filepath.Join(homeDir, tokenPath[2:])
	}

	absPath, err := filepath.Abs(tokenPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	tokenDir := filepath.Dir(absPath)
	if err := os.MkdirAll(tokenDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create token directory %s: %w", tokenDir, err)
	}

	if useDefault {
		if err := checkPrivateDir(tokenDir); err != nil {
			return "", err
		}
	}

	return absPath, nil
}

// defaultTokenDir returns the per-user directory for the session credential.
// XDG_RUNTIME_DIR wins over the user cache directory.
func defaultTokenDir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "toptracks"), nil
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "toptracks"), nil
}

// checkPrivateDir rejects anything but a directory (not a symlink) that only
// the current user can reach.
func checkPrivateDir(dir string) error {
	info, err := os.Lstat(dir)
	if err != nil {
		return fmt.Errorf("failed to inspect token directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInsecureTokenDir, dir)
	}
	if err := checkOwnership(info); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInsecureTokenDir, dir, err)
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(conf *Config) error {
	var errors []string

	if conf.Server.Port < 1 || conf.Server.Port > 65535 {
		errors = append(errors, "server port must be between 1 and 65535")
	}

	// A missing client ID only matters once a login is attempted
	if conf.Spotify.ClientID == "" {
		log.Warn("SPOTIFY_CLIENT_ID is not set. Login with Spotify will not be possible.")
	}

	if u, err := url.Parse(conf.Spotify.RedirectURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, "spotify redirect URI must be an absolute URL")
	} else if msg := checkRedirectTarget(u, conf.Server); msg != "" {
		errors = append(errors, msg)
	}

	if !strings.HasSuffix(conf.Spotify.APIBaseURL, "/") {
		errors = append(errors, "spotify API base URL must end with '/'")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// checkRedirectTarget reports a redirect URI that does not point at the
// callback listener. The browser is sent to the redirect URI, so a mismatch
// means the receiver never sees it.
func checkRedirectTarget(u *url.URL, server ServerConfig) string {
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	if port != strconv.Itoa(server.Port) {
		return fmt.Sprintf("spotify redirect URI port %s does not match SERVER_PORT %d", port, server.Port)
	}

	host := server.Host
	if host == "" {
		host = "127.0.0.1"
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
		return ""
	}
	if !strings.EqualFold(u.Hostname(), host) {
		return fmt.Sprintf("spotify redirect URI host %s does not match SERVER_HOST %s", u.Hostname(), host)
	}
	return ""
}
