package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/merchpoint/pos/internal/flagx"
	"github.com/merchpoint/pos/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds.
type JsonConfig struct {
	RemoteEndpoint      string         `json:"remote_endpoint"`
	DatabasePath        string         `json:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RetryDelay          timex.Duration `json:"retry_delay"`
	InterTaskDelay      timex.Duration `json:"inter_task_delay"`
	DemoMode            *bool          `json:"demo_mode"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is named it does nothing. Read or unmarshal
// errors panic; intended usage is defaults -> parseJson -> parseFlags, where
// later stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteEndpoint != "" {
		cfg.RemoteEndpoint = jc.RemoteEndpoint
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.RetryDelay.Duration != 0 {
		cfg.RetryDelay = time.Duration(jc.RetryDelay.Duration)
	}
	if jc.InterTaskDelay.Duration != 0 {
		cfg.InterTaskDelay = time.Duration(jc.InterTaskDelay.Duration)
	}
	if jc.DemoMode != nil {
		cfg.DemoMode = *jc.DemoMode
	}
}
