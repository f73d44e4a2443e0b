// Package config loads and exposes the scopemark configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ReportConfig holds report document output settings.
type ReportConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
	UnitLabel      string `json:"unitLabel" mapstructure:"unitLabel"`
	PageSize       int    `json:"pageSize" mapstructure:"pageSize"`
}

// StorageConfig selects and configures the annotation store backend.
type StorageConfig struct {
	Type       string `json:"type" mapstructure:"type"`
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// SiteConfig holds the optional geo-referencing settings.
type SiteConfig struct {
	Enabled       bool    `json:"enabled" mapstructure:"enabled"`
	Position      string  `json:"position" mapstructure:"position"` // "long,lat"
	MetersPerUnit float64 `json:"metersPerUnit" mapstructure:"metersPerUnit"`
}

// Load reads configuration from a JSON file in configDir and sets
// default values.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./scopelogs")

	viper.SetDefault("report.outputDir", "./reports")
	viper.SetDefault("report.compressOutput", false)
	viper.SetDefault("report.unitLabel", "")
	viper.SetDefault("report.pageSize", 2)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlitePath", "./scopemark.db")

	viper.SetDefault("site.enabled", false)
	viper.SetDefault("site.position", "")
	viper.SetDefault("site.metersPerUnit", 1000)

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.uploadEnabled", false)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "scopemark")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "scopemark-metrics")
	viper.SetDefault("influx.bucket", "scopemark")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("scopemark.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// GetReportConfig returns the report output settings.
func GetReportConfig() ReportConfig {
	var cfg ReportConfig
	_ = viper.UnmarshalKey("report", &cfg)
	return cfg
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	var cfg StorageConfig
	_ = viper.UnmarshalKey("storage", &cfg)
	return cfg
}

// GetSiteConfig returns the geo-referencing settings.
func GetSiteConfig() SiteConfig {
	var cfg SiteConfig
	_ = viper.UnmarshalKey("site", &cfg)
	return cfg
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
