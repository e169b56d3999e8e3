package env

// Prefix is the common env variable prefix for the service
const Prefix = "SWAPLANE"

const (
	// DBURLSuffix is the postgres connection string env suffix
	DBURLSuffix = "_DB_URL"

	// APIURLSuffix is the provider userapi base URL env suffix
	APIURLSuffix = "_API_URL"

	// FeedURLSuffix is the provider XML rate feed URL env suffix
	FeedURLSuffix = "_FEED_URL"

	// APIKeySuffix is the provider API key env suffix
	APIKeySuffix = "_API_KEY"

	// APILoginSuffix is the provider API login env suffix
	APILoginSuffix = "_API_LOGIN"
)
