// Package config loads runtime configuration from an optional YAML file
// and the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the entry points need to wire the access layer.
type Config struct {
	Region string // AWS region; also stamped on usage records
	Port   string // HTTP listen port for the serve command

	UsageLogPath       string // rotating usage-record file
	UsageLogMaxSizeMB  int
	UsageLogMaxBackups int
	UsageLogMaxAgeDays int
	UsageLogCompress   bool

	ArchiveBucket string // optional S3 bucket for usage-record archives
}

// Load reads configuration, with env vars (AWS_REGION, PORT) taking
// precedence over the file and the file over defaults. path may be empty.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("region", "us-east-1")
	v.SetDefault("port", "8080")
	v.SetDefault("usage_log.path", "dynamodb_resource_usage.log")
	v.SetDefault("usage_log.max_size", 100)
	v.SetDefault("usage_log.max_backups", 5)
	v.SetDefault("usage_log.max_age", 30)
	v.SetDefault("usage_log.compress", false)
	v.SetDefault("archive_bucket", "")

	v.BindEnv("region", "AWS_REGION")
	v.BindEnv("port", "PORT")
	v.BindEnv("archive_bucket", "USAGE_ARCHIVE_BUCKET")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return &Config{
		Region:             v.GetString("region"),
		Port:               v.GetString("port"),
		UsageLogPath:       v.GetString("usage_log.path"),
		UsageLogMaxSizeMB:  v.GetInt("usage_log.max_size"),
		UsageLogMaxBackups: v.GetInt("usage_log.max_backups"),
		UsageLogMaxAgeDays: v.GetInt("usage_log.max_age"),
		UsageLogCompress:   v.GetBool("usage_log.compress"),
		ArchiveBucket:      v.GetString("archive_bucket"),
	}, nil
}
