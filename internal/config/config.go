package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	MongoDB      MongoDBConfig
	JWT          JWTConfig
	SMTP         SMTPConfig
	Verification VerificationConfig
	LogLevel     string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// SMTPConfig holds the mail server configuration used to deliver one-time
// verification codes. When Host is empty or MockMailer is set, codes are
// logged instead of sent.
type SMTPConfig struct {
	Host        string
	User        string
	Password    string
	FromAddress string
	SkipVerify  bool
	MockMailer  bool
}

// VerificationConfig holds voter verification settings
type VerificationConfig struct {
	CodeLength int
	CodeTTL    int // seconds
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "clubportal")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("SMTP.FromAddress", "Club Portal <noreply@ktu.edu.tr>")
	viper.SetDefault("SMTP.MockMailer", true)
	viper.SetDefault("Verification.CodeLength", 6)
	viper.SetDefault("Verification.CodeTTL", 300) // 5 minutes
	viper.SetDefault("LogLevel", "info")
}
