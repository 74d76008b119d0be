package config

import (
	"fmt"
	"os"
	"strings"
)

// Config is built once at process start and passed into the engine;
// nothing reads the environment after startup.
type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	// IdentityURL is the base URL of the identity service; the anon key is
	// the RLS-scoped credential sent alongside the caller's bearer token.
	IdentityURL     string
	IdentityAnonKey string

	// SequenceAccessToken authenticates against the Sequence aggregator.
	SequenceAccessToken string

	// SequenceCandidateURLs overrides the built-in candidate endpoint list
	// when non-empty. Comma-separated in the environment.
	SequenceCandidateURLs []string
}

// ProcessDatabaseEnvironmentVariables reads only the store settings. The
// migration runner uses this; the server itself needs the full set below.
func ProcessDatabaseEnvironmentVariables() *Config {
	// Postgres defaults match the docker compose setup.
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
	}

	envPostgresAddress := os.Getenv("POSTGRES_ADDRESS")
	envPostgresPort := os.Getenv("POSTGRES_PORT")
	envPostgresDB := os.Getenv("POSTGRES_DB")
	envPostgresUsername := os.Getenv("POSTGRES_USERNAME")
	envPostgresPassword := os.Getenv("POSTGRES_PASSWORD")

	if len(envPostgresAddress) != 0 {
		env.PostgresAddress = envPostgresAddress
	}

	if len(envPostgresPort) != 0 {
		env.PostgresPort = envPostgresPort
	}

	if len(envPostgresDB) != 0 {
		env.PostgresDB = envPostgresDB
	}

	if len(envPostgresUsername) != 0 {
		env.PostgresUsername = envPostgresUsername
	}

	if len(envPostgresPassword) != 0 {
		env.PostgresPassword = envPostgresPassword
	}

	return &env
}

func ProcessEnvironmentVariables() (*Config, error) {
	env := ProcessDatabaseEnvironmentVariables()

	env.IdentityURL = strings.TrimRight(os.Getenv("IDENTITY_URL"), "/")
	env.IdentityAnonKey = os.Getenv("IDENTITY_ANON_KEY")
	env.SequenceAccessToken = os.Getenv("SEQUENCE_ACCESS_TOKEN")

	if raw := os.Getenv("SEQUENCE_CANDIDATE_URLS"); len(raw) != 0 {
		for _, u := range strings.Split(raw, ",") {
			u = strings.TrimSpace(u)
			if len(u) != 0 {
				env.SequenceCandidateURLs = append(env.SequenceCandidateURLs, u)
			}
		}
	}

	var missing []string
	if len(env.IdentityURL) == 0 {
		missing = append(missing, "IDENTITY_URL")
	}
	if len(env.IdentityAnonKey) == 0 {
		missing = append(missing, "IDENTITY_ANON_KEY")
	}
	if len(env.SequenceAccessToken) == 0 {
		missing = append(missing, "SEQUENCE_ACCESS_TOKEN")
	}
	if len(missing) != 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return env, nil
}
