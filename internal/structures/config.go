package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type NocoDB struct {
	Url          string        `yaml:"url" validate:"required"`
	Token        string        `yaml:"token" validate:"required"`
	TableID      string        `yaml:"tableId" validate:"required"`
	ClubsTableID string        `yaml:"clubsTableId" validate:"required"`
	CreatedField string        `yaml:"createdField" validate:"required"`
	UpdatedField string        `yaml:"updatedField" validate:"required"`
	PageSize     int           `yaml:"pageSize"`
	Timeout      time.Duration `yaml:"timeout"`
}

type Telegram struct {
	Token          string  `yaml:"token" validate:"required"`
	AllowedUserIDs []int64 `yaml:"allowedUserIds"`
}

type Schedule struct {
	Enabled      bool          `yaml:"enabled"`
	Time         string        `yaml:"time" validate:"required"`
	Period       string        `yaml:"period" validate:"required|in:today,yesterday,week,month,quarter,halfyear,year"`
	PollInterval time.Duration `yaml:"pollInterval"`
	StatePath    string        `yaml:"statePath" validate:"required"`
}

const DefaultReportTimeout = 10 * time.Minute

type Reports struct {
	OutputDir string        `yaml:"outputDir" validate:"required"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ReportTimeout bounds a single on-demand report, DefaultReportTimeout when unset.
func (r Reports) ReportTimeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultReportTimeout
	}
	return r.Timeout
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	NocoDB    NocoDB        `yaml:"nocodb"`
	Telegram  Telegram      `yaml:"telegram"`
	Schedule  Schedule      `yaml:"schedule"`
	Reports   Reports       `yaml:"reports"`
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
