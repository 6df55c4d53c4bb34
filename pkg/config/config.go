package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort           string
	FirestoreProject     string
	CredentialsFile      string
	Environment          string
	JWTSecret            string
	PolicyAllowUnmatched bool
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		FirestoreProject: getEnv("FIRESTORE_PROJECT_ID", ""),
		CredentialsFile:  getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		Environment:      getEnv("ENVIRONMENT", "development"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key"),
		// Legacy deployments allowed unmatched principals through the access
		// policy. Off by default; see the access policy for details.
		PolicyAllowUnmatched: getEnvAsBool("POLICY_ALLOW_UNMATCHED", false),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}
