package config

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"dispatch-admin/internal/dispatchadmin"
	"dispatch-admin/internal/dispatchadmin/data/database"
	"dispatch-admin/internal/dispatchadmin/identity"
)

const (
	serverAddressFlag       = "a"
	serverAddressEnv        = "RUN_ADDRESS"
	serverAddressDefault    = "localhost:8080"
	dbConnectionStringFlag  = "d"
	dbConnectionStringEnv   = "DATABASE_URI"
	dbConnectionStringDef   = ""
	redisAddressFlag        = "c"
	redisAddressEnv         = "REDIS_ADDRESS"
	redisAddressDefault     = "localhost:6379"
	identityAddressFlag     = "i"
	identityAddressEnv      = "IDENTITY_ADDRESS"
	identityAddressDefault  = "http://localhost:8090"
	identityAPIKeyEnv       = "IDENTITY_API_KEY"
	jwtSecretEnv            = "JWT_SECRET"
	setupKeyEnv             = "SETUP_KEY"
)

type Config struct {
	Server          dispatchadmin.Config
	JWTConfig       JWTConfig
	DB              database.Config
	Identity        identity.Config
	RedisAddress    string
	CacheTTL        time.Duration
	ShutdownTimeout time.Duration
}

type JWTConfig struct {
	Algorithm string
	Secret    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	serverAddress := flag.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	dbConnectionString := flag.String(
		dbConnectionStringFlag,
		dbConnectionStringDef,
		"PostgreSQL connection string",
	)

	redisAddress := flag.String(
		redisAddressFlag,
		redisAddressDefault,
		"Redis address host:port",
	)

	identityAddress := flag.String(
		identityAddressFlag,
		identityAddressDefault,
		"Identity provider base URL",
	)

	flag.Parse()

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := os.LookupEnv(dbConnectionStringEnv); ok {
		*dbConnectionString = valStr
	}

	if valStr, ok := os.LookupEnv(redisAddressEnv); ok {
		*redisAddress = valStr
	}

	if valStr, ok := os.LookupEnv(identityAddressEnv); ok {
		*identityAddress = valStr
	}

	return &Config{
		Server: dispatchadmin.Config{
			ServerAddress:   *serverAddress,
			SetupKey:        os.Getenv(setupKeyEnv),
			ShutdownTimeout: time.Second * 5,
		},
		JWTConfig: JWTConfig{
			Algorithm: "HS256",
			Secret:    os.Getenv(jwtSecretEnv),
		},
		DB: database.Config{
			ConnectionString: *dbConnectionString,
			RetryAttemptDelays: []time.Duration{
				time.Second,
				time.Second * 3,
				time.Second * 5,
			},
		},
		Identity: identity.Config{
			ServerAddress: *identityAddress,
			APIKey:        os.Getenv(identityAPIKeyEnv),
		},
		RedisAddress:    *redisAddress,
		CacheTTL:        time.Minute * 5,
		ShutdownTimeout: time.Second * 5,
	}, nil
}
