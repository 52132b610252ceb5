// Package config provides configuration management for the edge calibrator.
package config

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Calibration CalibrationConfig `mapstructure:"calibration" validate:"required"`
	Thresholds  ThresholdsConfig  `mapstructure:"thresholds" validate:"required"`
	History     HistoryAPIConfig  `mapstructure:"history"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Health      HealthConfig      `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// CalibrationConfig represents calibration engine configuration
type CalibrationConfig struct {
	MinSamples     int       `mapstructure:"min_samples" validate:"required,gte=1"`
	Validation     string    `mapstructure:"validation" validate:"required,validationmode"`
	OptimTarget    string    `mapstructure:"optim_target" validate:"required,optimtarget"`
	EdgeGrid       []float64 `mapstructure:"edge_grid" validate:"required,min=1"`
	ConfidenceGrid []float64 `mapstructure:"confidence_grid" validate:"required,min=1,dive,gte=0,lte=1"`
	Folds          int       `mapstructure:"folds" validate:"omitempty,gte=1"`
	WalkStep       int       `mapstructure:"walk_step" validate:"omitempty,gte=1"`
	LookbackDays   int       `mapstructure:"lookback_days" validate:"required,gt=0"`
}

// ThresholdsConfig represents the live threshold lookup configuration
type ThresholdsConfig struct {
	DefaultTauEdge   float64 `mapstructure:"default_tau_edge"`
	DefaultGammaConf float64 `mapstructure:"default_gamma_conf" validate:"gte=0,lte=1"`
	CacheTTLSeconds  int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// HistoryAPIConfig represents the optional HTTP sample source configuration
type HistoryAPIConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// SchedulerConfig represents the recalibration scheduler configuration
type SchedulerConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	RecalibrateCron string `mapstructure:"recalibrate_cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
