package utilization

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings contains configurable thresholds for the utilization audit
type Settings struct {
	// CPUThresholdPercent flags running instances whose mean CPU stayed below it (default: 10.0)
	CPUThresholdPercent float64 `mapstructure:"cpu_threshold_percent"`
	// EC2LookbackDays is the CPU metric window (default: 30)
	EC2LookbackDays int `mapstructure:"ec2_lookback_days"`
	// RDSLookbackDays is the connection metric window (default: 7)
	RDSLookbackDays int `mapstructure:"rds_lookback_days"`
	// LambdaLookbackDays is the invocation metric window (default: 30)
	LambdaLookbackDays int `mapstructure:"lambda_lookback_days"`
	// S3LookbackDays is the object count metric window (default: 30)
	S3LookbackDays int `mapstructure:"s3_lookback_days"`
}

// DefaultSettings returns the default configuration for utilization audits
func DefaultSettings() Settings {
	return Settings{
		CPUThresholdPercent: 10.0,
		EC2LookbackDays:     30,
		RDSLookbackDays:     7,
		LambdaLookbackDays:  30,
		S3LookbackDays:      30,
	}
}

// LoadSettings loads audit thresholds from the specified settings file,
// filling unset keys with defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("cpu_threshold_percent", settings.CPUThresholdPercent)
	v.SetDefault("ec2_lookback_days", settings.EC2LookbackDays)
	v.SetDefault("rds_lookback_days", settings.RDSLookbackDays)
	v.SetDefault("lambda_lookback_days", settings.LambdaLookbackDays)
	v.SetDefault("s3_lookback_days", settings.S3LookbackDays)

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse utilization settings: %w", err)
	}
	return settings, nil
}
