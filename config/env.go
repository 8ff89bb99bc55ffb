package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables
const (
	EnvPrivateKey    = "LIQUIDATOR_PRIVATE_KEY"
	EnvWalletAddress = "WALLET_ADDRESS"
	EnvRPCEndpoint   = "RPC_ENDPOINT"
	EnvNetwork       = "NETWORK" // arbitrum, arbitrum-sepolia
)

// LoadEnv loads environment variables from .env file
func LoadEnv() error {
	return godotenv.Load()
}

// GetEnvWithDefault gets an environment variable with a default value
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetRequiredEnv gets an environment variable or fails if it is unset
func GetRequiredEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s not set", key)
	}
	return value, nil
}

// SecureConfig holds credentials that never go into the config file
type SecureConfig struct {
	PrivateKey string
}

// LoadSecureConfig reads signing credentials from the environment
func LoadSecureConfig() (*SecureConfig, error) {
	privateKey, err := GetRequiredEnv(EnvPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("private key not found: %w", err)
	}

	return &SecureConfig{PrivateKey: privateKey}, nil
}
