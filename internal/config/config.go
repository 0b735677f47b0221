package config

import "github.com/caarlos0/env/v11"

// Config is loaded from the environment once at startup.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	// Render resolutions: preview is the display path, download the full
	// resolution attachment, spreadsheet the reduced source used to keep the
	// per-cell payload under the XLSX ceiling.
	PreviewModuleSize     int `env:"PREVIEW_MODULE_SIZE" envDefault:"200"`
	DownloadModuleSize    int `env:"DOWNLOAD_MODULE_SIZE" envDefault:"400"`
	SpreadsheetModuleSize int `env:"SPREADSHEET_MODULE_SIZE" envDefault:"150"`

	// BatchAbortOnError switches batch export from skip-and-report to
	// abort-on-first-failure.
	BatchAbortOnError bool `env:"BATCH_ABORT_ON_ERROR" envDefault:"false"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
