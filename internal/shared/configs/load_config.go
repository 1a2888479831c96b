package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	"server-runner/internal/shared/validators"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "RUNNER"
	defaultEnvFile = ".env"
)

// secretEnvBindings maps config keys to the plain env names operators already use.
var secretEnvBindings = map[string]string{
	"auth.admin_user":          "ADMIN_USER",
	"auth.admin_password":      "ADMIN_PASSWORD",
	"auth.admin_password_hash": "ADMIN_PASSWORD_HASH",
	"auth.jwt_secret":          "JWT_SECRET",
	"sync.bucket":              "BACKUPS_BUCKET",
	"sync.gcs.project_id":      "PROJECT_ID",
}

// LoadConfig reads configuration from file, overlays environment variables and validates it.
// A .env file in the working directory is loaded first when present.
var LoadConfig = func(configPath string) (*Config, error) {
	return LoadConfigWithEnvFile(configPath, defaultEnvFile)
}

// LoadConfigWithEnvFile is LoadConfig with an explicit dotenv path. Variables already set in the
// process environment win over the file.
func LoadConfigWithEnvFile(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read from file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	// Env overrides: RUNNER_SERVER_PORT -> server.port, plus the plain secret names
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only sees keys viper already knows; bind the rest so optional keys left out
	// of the file (log.file, sync.s3.*) are still reachable through RUNNER_ names.
	for _, key := range configKeys(reflect.TypeOf(Config{}), "") {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	for key, envName := range secretEnvBindings {
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", envName, err)
		}
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		if ve, ok := err.(validators.ValidationErrors); ok {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}

	return &cfg, nil
}

// configKeys lists the dotted mapstructure key of every leaf field under t.
func configKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			keys = append(keys, configKeys(field.Type, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 7777)
	v.SetDefault("server.read_header_timeout", 5)
	v.SetDefault("server.read_timeout", 600)
	v.SetDefault("server.write_timeout", 600)
	v.SetDefault("server.idle_timeout", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("auth.token_ttl_minutes", 24*60)
	v.SetDefault("auth.login_rate_per_minute", 10)

	v.SetDefault("cors.allowed_origin", "*")

	v.SetDefault("backups.default_name", "server")
	v.SetDefault("backups.snapshot_prefix", "mcdata")
	v.SetDefault("backups.max_upload_bytes", int64(1)<<30)

	v.SetDefault("containers.hostname", "minecraft")
	v.SetDefault("containers.network_prefix", "mcnet")
	v.SetDefault("containers.port", 25565)
	v.SetDefault("containers.protocol", "tcp")
	v.SetDefault("containers.host_ip", "0.0.0.0")
	v.SetDefault("containers.mount_path", "/data")
	v.SetDefault("containers.memory_gib", 2)
	v.SetDefault("containers.env", []string{"EULA=TRUE"})
	v.SetDefault("containers.privileged", true)

	v.SetDefault("sync.retry_attempts", 3)
	v.SetDefault("sync.retry_delay_ms", 500)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/history.db")
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "server.port")
	if e.StructNamespace() != "" {
		// Extract nested field path (e.g., "Config.Server.Port" -> "server.port")
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			// Skip "Config" prefix, convert to lowercase with dots
			fieldPath := strings.ToLower(strings.Join(parts[1:], "."))
			field = fieldPath
		}
	}

	var msg string
	switch tag {
	case "required", "required_if", "required_with", "required_without", "required_unless":
		msg = fmt.Sprintf("%s (required)", field)
	case "min":
		msg = fmt.Sprintf("%s (min=%s)", field, e.Param())
	case "max":
		msg = fmt.Sprintf("%s (max=%s)", field, e.Param())
	case "oneof":
		msg = fmt.Sprintf("%s (oneof=%s)", field, e.Param())
	default:
		msg = fmt.Sprintf("%s (%s)", field, tag)
	}

	return msg
}
