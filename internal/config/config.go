// Package config loads server configuration from the process environment.
package config

import (
	"os"
	"strings"

	"github.com/go-faster/errors"
)

// Config holds the two required external settings plus optional extras.
type Config struct {
	// BaseURL is the root of the Gitea/Forgejo instance, without a
	// trailing slash (e.g. https://git.example.com).
	BaseURL string
	// Token is the API credential sent as "Authorization: token <...>".
	Token string
	// DefaultDirectory, when set, is used for repository resolution when a
	// tool call supplies neither owner/repo nor directory.
	DefaultDirectory string
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// FromEnv reads configuration from environment variables.
// GITEA_URL / GITEA_TOKEN are checked first; FORGEJO_REMOTE_URL /
// FORGEJO_AUTH_TOKEN are accepted as fallbacks for older setups.
func FromEnv() (*Config, error) {
	baseURL := firstNonEmpty(os.Getenv("GITEA_URL"), os.Getenv("FORGEJO_REMOTE_URL"))
	if baseURL == "" {
		return nil, errors.New("GITEA_URL (or FORGEJO_REMOTE_URL) environment variable is required")
	}

	token := firstNonEmpty(os.Getenv("GITEA_TOKEN"), os.Getenv("FORGEJO_AUTH_TOKEN"))
	if token == "" {
		return nil, errors.New("GITEA_TOKEN (or FORGEJO_AUTH_TOKEN) environment variable is required")
	}

	return &Config{
		BaseURL:          strings.TrimRight(baseURL, "/"),
		Token:            token,
		DefaultDirectory: os.Getenv("GITEA_REPO_DIR"),
	}, nil
}
