// Package config loads the application configuration from, in increasing
// priority: built-in defaults, a JSON config file, environment variables,
// and command-line flags. The resulting values are validated before use.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	// RunAddr is the listen address of the HTTP server.
	RunAddr string `env:"SERVER_ADDRESS" json:"server_address" validate:"hostname_port"`

	// LogLevel is the zap log level.
	LogLevel string `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`

	// DatabaseDSN selects the PostgreSQL backend when non-empty.
	DatabaseDSN string `env:"DATABASE_DSN" json:"database_dsn"`

	// DBFileName selects the JSON-file backend when non-empty and no DSN is set.
	DBFileName string `env:"FILE_STORAGE_PATH" json:"file_storage_path" validate:"filepath"`

	// DBConnectionTimeout is the database ping timeout in seconds.
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT" json:"db_connection_timeout"`

	// MigrationsDir is the goose migrations directory for the PostgreSQL backend.
	MigrationsDir string `env:"MIGRATIONS_DIR" json:"migrations_dir"`

	// JWTSigningSecretKey is the base64url-encoded secret signing session tokens.
	JWTSigningSecretKey string `env:"JWT_SECRET" json:"jwt_secret" validate:"required"`

	// TokenTTL bounds session token validity. Zero issues non-expiring tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" json:"token_ttl"`

	// TrustedSubnet is the CIDR allowed to call the internal stats endpoint.
	TrustedSubnet string `env:"TRUSTED_SUBNET" json:"trusted_subnet"`
}

var defaultConfig = Config{
	RunAddr:             ":3001",
	LogLevel:            "info",
	DatabaseDSN:         "",
	DBFileName:          "",
	DBConnectionTimeout: 10,
	MigrationsDir:       "cmd/linkshare/migrations",
	JWTSigningSecretKey: "bGluay1zaGFyaW5nLWJlLXNlc3Npb24tc2VjcmV0",
	TokenTTL:            0,
	TrustedSubnet:       "",
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (values *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(values)
}

func (values *Config) overlay(source *Config) {
	if source.RunAddr != "" {
		values.RunAddr = source.RunAddr
	}
	if source.LogLevel != "" {
		values.LogLevel = source.LogLevel
	}
	if source.DatabaseDSN != "" {
		values.DatabaseDSN = source.DatabaseDSN
	}
	if source.DBFileName != "" {
		values.DBFileName = source.DBFileName
	}
	if source.DBConnectionTimeout != 0 {
		values.DBConnectionTimeout = source.DBConnectionTimeout
	}
	if source.MigrationsDir != "" {
		values.MigrationsDir = source.MigrationsDir
	}
	if source.JWTSigningSecretKey != "" {
		values.JWTSigningSecretKey = source.JWTSigningSecretKey
	}
	if source.TokenTTL != 0 {
		values.TokenTTL = source.TokenTTL
	}
	if source.TrustedSubnet != "" {
		values.TrustedSubnet = source.TrustedSubnet
	}
}

func loadJSONConfig(fileName string, values *Config) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	fromJSON := Config{}
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		return err
	}

	values.overlay(&fromJSON)

	return nil
}

// InitOption customizes the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command-line flag parsing;
// used by tests that call New repeatedly.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds the configuration with priority CLI flags > env > JSON config
// file (CONFIG env or -c flag) > defaults, and validates the result.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	flagValues := Config{}
	configFileName := ""
	if !options.disableFlagsParsing {
		flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
		flags.StringVar(&flagValues.RunAddr, "a", "", "address and port to run server")
		flags.StringVar(&flagValues.LogLevel, "l", "", "logger level")
		flags.StringVar(&flagValues.DBFileName, "f", "", "JSON file name with database")
		flags.StringVar(&flagValues.DatabaseDSN, "d", "", "a string with the database connection details")
		flags.StringVar(&flagValues.MigrationsDir, "m", "", "goose migrations directory")
		flags.StringVar(&flagValues.TrustedSubnet, "t", "", "trusted subnet for internal endpoints in CIDR notation")
		flags.StringVar(&configFileName, "c", "", "JSON config file name")
		if err := flags.Parse(os.Args[1:]); err != nil {
			return nil, err
		}
	}

	if configFileName == "" {
		configFileName = os.Getenv("CONFIG")
	}
	if configFileName != "" {
		if err := loadJSONConfig(configFileName, values); err != nil {
			return nil, err
		}
	}

	valuesFromEnv := Config{}
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}
	values.overlay(&valuesFromEnv)

	values.overlay(&flagValues)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
