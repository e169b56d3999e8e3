package serve

import (
	"fmt"
	"os"

	"github.com/swaplane/swaplane/cmd/env"
	"github.com/swaplane/swaplane/provider/wirebit"
)

// providerFromEnv builds the upstream provider client from the environment
func providerFromEnv() (*wirebit.Client, error) {
	cfg := wirebit.Config{
		BaseURL:  os.Getenv(env.Prefix + env.APIURLSuffix),
		FeedURL:  os.Getenv(env.Prefix + env.FeedURLSuffix),
		APIKey:   os.Getenv(env.Prefix + env.APIKeySuffix),
		APILogin: os.Getenv(env.Prefix + env.APILoginSuffix),
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing %s", env.Prefix+env.APIURLSuffix)
	}

	if cfg.FeedURL == "" {
		return nil, fmt.Errorf("missing %s", env.Prefix+env.FeedURLSuffix)
	}

	return wirebit.NewClient(cfg), nil
}
