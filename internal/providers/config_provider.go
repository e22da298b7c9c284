package providers

import (
	"auroscope/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// .env is optional, real environment wins over it
	_ = godotenv.Load()

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("nocodb.createdField", "CreatedAt1")
	v.SetDefault("nocodb.updatedField", "UpdatedAt")
	v.SetDefault("nocodb.pageSize", 100)
	v.SetDefault("nocodb.timeout", 30*time.Second)
	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.time", "09:00")
	v.SetDefault("schedule.period", "yesterday")
	v.SetDefault("schedule.pollInterval", time.Minute)
	v.SetDefault("reports.outputDir", "reports")
	v.SetDefault("reports.timeout", structures.DefaultReportTimeout)

	_ = v.BindEnv("nocodb.url", "NOCODB_URL")
	_ = v.BindEnv("nocodb.token", "NOCODB_TOKEN")
	_ = v.BindEnv("nocodb.tableId", "NOCODB_TABLE_ID")
	_ = v.BindEnv("nocodb.clubsTableId", "NOCODB_CLUBS_TABLE_ID")
	_ = v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.allowedUserIds", "ALLOWED_USER_IDS")
	_ = v.BindEnv("schedule.time", "REPORT_SCHEDULE_TIME")
	_ = v.BindEnv("logger.level", "AUROSCOPE_LOG_LEVEL")
	_ = v.BindEnv("metrics.enabled", "AUROSCOPE_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "AuroScope"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
