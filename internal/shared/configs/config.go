package configs

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Log        LogConfig        `mapstructure:"log" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Backups    BackupsConfig    `mapstructure:"backups" validate:"required"`
	Containers ContainersConfig `mapstructure:"containers"`
	ServerLogs ServerLogsConfig `mapstructure:"server_logs" validate:"required"`
	Sync       SyncConfig       `mapstructure:"sync"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body, uploads included)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
// File is optional; when set, events are also written to a size-rotated file.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
}

// AuthConfig holds the single admin credential and token settings.
// Secrets are normally supplied through ADMIN_USER, ADMIN_PASSWORD, ADMIN_PASSWORD_HASH and JWT_SECRET.
type AuthConfig struct {
	AdminUser          string `mapstructure:"admin_user" validate:"required"`
	AdminPassword      string `mapstructure:"admin_password" validate:"required_without=AdminPasswordHash"`
	AdminPasswordHash  string `mapstructure:"admin_password_hash"`
	JWTSecret          string `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTLMinutes    int    `mapstructure:"token_ttl_minutes" validate:"required,min=1"`
	LoginRatePerMinute int    `mapstructure:"login_rate_per_minute" validate:"min=0"` // 0 disables limiting
}

type CORSConfig struct {
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// BackupsConfig holds the local archive layout.
type BackupsConfig struct {
	Dir            string `mapstructure:"dir" validate:"required"`
	DataDir        string `mapstructure:"data_dir" validate:"required"`
	DefaultName    string `mapstructure:"default_name" validate:"required,basename"`
	SnapshotPrefix string `mapstructure:"snapshot_prefix" validate:"required,basename"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" validate:"required,min=1"`
}

// ContainersConfig describes the game server container. Ignored unless Enabled.
type ContainersConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	Image              string   `mapstructure:"image" validate:"required_if=Enabled true"`
	Name               string   `mapstructure:"name" validate:"required_if=Enabled true"`
	Hostname           string   `mapstructure:"hostname"`
	NetworkPrefix      string   `mapstructure:"network_prefix" validate:"required_if=Enabled true"`
	Port               int      `mapstructure:"port" validate:"min=0,max=65535"`
	Protocol           string   `mapstructure:"protocol" validate:"omitempty,oneof=tcp udp"`
	HostIP             string   `mapstructure:"host_ip" validate:"omitempty,ip"`
	MountPath          string   `mapstructure:"mount_path"`
	MemoryGiB          int64    `mapstructure:"memory_gib" validate:"min=0"`
	Env                []string `mapstructure:"env"`
	Privileged         bool     `mapstructure:"privileged"`
	StopTimeoutSeconds int      `mapstructure:"stop_timeout_seconds" validate:"min=0"`
}

type ServerLogsConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

// SyncConfig holds the remote object store used to mirror backups.
// An empty provider disables syncing.
type SyncConfig struct {
	Provider      string    `mapstructure:"provider" validate:"omitempty,oneof=gcs s3"`
	Bucket        string    `mapstructure:"bucket" validate:"required_with=Provider"`
	AutoUpload    bool      `mapstructure:"auto_upload"`
	RetryAttempts int       `mapstructure:"retry_attempts" validate:"min=1"`
	RetryDelayMs  int       `mapstructure:"retry_delay_ms" validate:"min=0"`
	GCS           GCSConfig `mapstructure:"gcs"`
	S3            S3Config  `mapstructure:"s3"`
}

type GCSConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// S3Config works with AWS and S3-compatible stores. Blank credentials fall back to the default AWS chain.
type S3Config struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// DatabaseConfig holds the backup history database. Driver "none" disables history.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite none"`
	DSN    string `mapstructure:"dsn" validate:"required_unless=Driver none"`
}
