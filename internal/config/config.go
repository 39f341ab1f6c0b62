package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI       string
	PostgresURI    string
	RedisURI       string
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)
	Environment    string   // ENV: production, development, etc.

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Chain settings. DemoMode swaps the gateway collaborators for the
	// in-process mocks so the portals run without a node.
	DemoMode          bool
	ChainGatewayURL   string
	ContractAddress   string
	ChainID           int64
	NetworkName       string
	ExplorerURL       string
	DeveloperWallet   string
	TransactionFeeWei string

	// GatedActionTimeout bounds how long a wallet confirmation may stay
	// pending before the action is abandoned.
	GatedActionTimeout time.Duration
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		for _, u := range []string{getEnv("FRONTEND_URL", "http://localhost:3000"), getEnv("FRONTEND_URL_2", "")} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/leasezero")),
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/leasezero?sslmode=disable"),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Environment:    env,
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: allowedOrigins,

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		DemoMode:          getEnvBool("DEMO_MODE", true),
		ChainGatewayURL:   getEnv("CHAIN_GATEWAY_URL", "http://localhost:8545"),
		ContractAddress:   getEnv("CONTRACT_ADDRESS", "0x42699a7612a87f13F23F6D3CA6091084EEAE0952"),
		ChainID:           getEnvInt64("CHAIN_ID", 11155111),
		NetworkName:       getEnv("NETWORK_NAME", "Sepolia Testnet"),
		ExplorerURL:       getEnv("EXPLORER_URL", "https://sepolia.etherscan.io"),
		DeveloperWallet:   getEnv("DEVELOPER_WALLET", ""),
		TransactionFeeWei: getEnv("TRANSACTION_FEE_WEI", "10000000000000"),

		GatedActionTimeout: getEnvDuration("GATED_ACTION_TIMEOUT", 2*time.Minute),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
