// internal/config/settings.go
package config

import "github.com/spf13/viper"

// SettingType represents the type of a setting
type SettingType string

const (
	// String type for string settings
	String SettingType = "string"
	// Bool type for boolean settings
	Bool SettingType = "bool"
	// StringSlice type for string slice settings
	StringSlice SettingType = "stringSlice"
)

// Setting defines a configuration setting
type Setting struct {
	// Name is the name of the setting
	Name string
	// Short is a short description of the setting
	Short string
	// Type is the type of the setting
	Type SettingType
	// Default is the default value of the setting
	Default interface{}
	// Env is the environment variable name for the setting
	Env string
	// Required indicates whether the setting is required
	Required bool
}

// SettingList is a list of settings
type SettingList []Setting

// PopulateViperDefaults sets default values for all settings in Viper
func (sl SettingList) PopulateViperDefaults(v *viper.Viper) {
	for _, s := range sl {
		v.SetDefault(s.Name, s.Default)
	}
}

// Settings defines all application settings
var Settings = SettingList{
	// Server settings
	{
		Name:    "SERVER_ADDR",
		Short:   "Address on which the server listens",
		Type:    String,
		Default: ":8000",
		Env:     "SERVER_ADDR",
	},
	{
		Name:    "METRICS_ADDR",
		Short:   "Address on which the metrics server listens",
		Type:    String,
		Default: ":9090",
		Env:     "METRICS_ADDR",
	},
	{
		Name:    "SHUTDOWN_TIMEOUT",
		Short:   "Maximum time to wait for graceful shutdown",
		Type:    String,
		Default: "30s",
		Env:     "SHUTDOWN_TIMEOUT",
	},

	// TLS settings
	{
		Name:    "TLS_ENABLED",
		Short:   "Enable TLS for the server",
		Type:    Bool,
		Default: false,
		Env:     "TLS_ENABLED",
	},
	{
		Name:    "TLS_CERT_PATH",
		Short:   "Path to TLS certificate file",
		Type:    String,
		Default: "",
		Env:     "TLS_CERT_PATH",
	},
	{
		Name:    "TLS_KEY_PATH",
		Short:   "Path to TLS key file",
		Type:    String,
		Default: "",
		Env:     "TLS_KEY_PATH",
	},

	// Upstream settings
	{
		Name:     "UPSTREAM_URL",
		Short:    "URL of the protected upstream service",
		Type:     String,
		Default:  "",
		Env:      "UPSTREAM_URL",
		Required: true,
	},
	{
		Name:    "UPSTREAM_TIMEOUT",
		Short:   "Timeout for upstream requests",
		Type:    String,
		Default: "30s",
		Env:     "UPSTREAM_TIMEOUT",
	},

	// Authentication
	{
		Name:     "AUTH_JWT_SECRET",
		Short:    "HMAC secret for bearer token verification",
		Type:     String,
		Default:  "",
		Env:      "AUTH_JWT_SECRET",
		Required: true,
	},
	{
		Name:    "AUTH_JWT_ISSUER",
		Short:   "Issuer claim on issued tokens",
		Type:    String,
		Default: "authgate",
		Env:     "AUTH_JWT_ISSUER",
	},
	{
		Name:    "AUTH_JWT_TTL",
		Short:   "Validity duration of issued tokens",
		Type:    String,
		Default: "24h",
		Env:     "AUTH_JWT_TTL",
	},
	{
		Name:    "AUTH_PUBLIC_PATHS",
		Short:   "Ant-style path patterns served without authentication",
		Type:    StringSlice,
		Default: []string{"/healthz"},
		Env:     "AUTH_PUBLIC_PATHS",
	},

	// Store settings
	{
		Name:    "STORE_PATH",
		Short:   "Path to the SQLite user store",
		Type:    String,
		Default: "authgate.db",
		Env:     "STORE_PATH",
	},

	// Observability settings
	{
		Name:    "LOG_LEVEL",
		Short:   "Minimum log level to emit",
		Type:    String,
		Default: "info",
		Env:     "LOG_LEVEL",
	},
}
