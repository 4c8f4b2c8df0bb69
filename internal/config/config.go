package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"authgate/internal/auth"
)

const (
	defaultPort            = "5000"
	defaultStaticDir       = "static"
	defaultShutdownTimeout = 10 * time.Second
)

var (
	ErrMissingCredentials = errors.New("BASIC_AUTH_USER and BASIC_AUTH_PASS must be set")
	ErrInvalidUpstream    = errors.New("UPSTREAM_URL must be an absolute http(s) URL")
	ErrInvalidTimeout     = errors.New("SHUTDOWN_TIMEOUT must be a positive duration")
)

type Config struct {
	BasicAuthUser   string
	BasicAuthPass   string
	Port            string
	UpstreamURL     string        // Optional; reverse proxy target, takes precedence over StaticDir
	StaticDir       string        // Served when UpstreamURL is empty
	ShutdownTimeout time.Duration // Zero if SHUTDOWN_TIMEOUT did not parse; caught by Validate
}

// LoadEnvFile loads KEY=VALUE files into the process environment.
// Variables already set are left alone and missing files are skipped.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func LoadConfig() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = defaultStaticDir
	}
	timeout := defaultShutdownTimeout
	if s := strings.TrimSpace(os.Getenv("SHUTDOWN_TIMEOUT")); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			d = 0
		}
		timeout = d
	}
	return &Config{
		BasicAuthUser:   os.Getenv("BASIC_AUTH_USER"),
		BasicAuthPass:   os.Getenv("BASIC_AUTH_PASS"),
		Port:            port,
		UpstreamURL:     strings.TrimSpace(os.Getenv("UPSTREAM_URL")),
		StaticDir:       staticDir,
		ShutdownTimeout: timeout,
	}
}

// Validate reports the first setting that would keep the server from starting.
func (c *Config) Validate() error {
	if c.BasicAuthUser == "" || c.BasicAuthPass == "" {
		return ErrMissingCredentials
	}
	if c.UpstreamURL != "" {
		if _, err := c.Upstream(); err != nil {
			return err
		}
	}
	if c.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Upstream parses UpstreamURL. It returns nil, nil when no upstream is configured.
func (c *Config) Upstream() (*url.URL, error) {
	if c.UpstreamURL == "" {
		return nil, nil
	}
	u, err := url.Parse(c.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpstream, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUpstream, c.UpstreamURL)
	}
	return u, nil
}

func (c *Config) Credentials() auth.Credentials {
	return auth.Credentials{Username: c.BasicAuthUser, Password: c.BasicAuthPass}
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
