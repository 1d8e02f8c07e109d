package config

import (
	"github.com/spf13/viper"
)

// InitViper creates and returns a *viper.Viper bound to the CUBE_ environment
// variables. Defaults intentionally stay out of viper so that env values can
// be distinguished from unset ones when overlaying onto a file-sourced Config.
func InitViper() *viper.Viper {
	v := viper.New()

	// Environment variables: CUBE_API_KEY, CUBE_TENANT_NAME, CUBE_AGENT_ID,
	// CUBE_API_URL.
	v.SetEnvPrefix("CUBE")
	v.AutomaticEnv()

	return v
}

// applyEnv overlays environment values from v onto cfg. Empty env values
// leave the existing (file or default) value in place.
func applyEnv(cfg *Config, v *viper.Viper) {
	if s := v.GetString("api_key"); s != "" {
		cfg.APIKey = s
	}
	if s := v.GetString("tenant_name"); s != "" {
		cfg.TenantName = s
	}
	if s := v.GetString("agent_id"); s != "" {
		cfg.AgentID = s
	}
	if s := v.GetString("api_url"); s != "" {
		cfg.APIURL = s
	}
}
