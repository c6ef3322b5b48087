package device

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the options used when opening an image
type Config struct {
	PartitionScan bool   `mapstructure:"partition_scan"`
	SectorSize    int    `mapstructure:"sector_size"`
	Partition     int    `mapstructure:"partition"`
	TestDataPath  string `mapstructure:"test_data_path"`
}

// AutoPartition selects the first HFS partition, or the whole image when none is found
const AutoPartition = -1

// DefaultConfig returns the configuration used when no config file is present
func DefaultConfig() *Config {
	return &Config{
		PartitionScan: true,
		SectorSize:    512,
		Partition:     AutoPartition,
		TestDataPath:  "./testdata",
	}
}

// SetDefaults registers the device defaults on v
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("device.partition_scan", d.PartitionScan)
	v.SetDefault("device.sector_size", d.SectorSize)
	v.SetDefault("device.partition", d.Partition)
	v.SetDefault("device.test_data_path", d.TestDataPath)
}

// LoadConfig reads hfs-config.{yaml,json}, or the file already set on v, and HFS_* environment
// variables into a Config.
// A missing config file is not an error. A nil v uses the global viper instance.
func LoadConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	// An explicit SetConfigFile takes precedence over the search path
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("hfs-config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.go-hfs")
	}
	SetDefaults(v)

	v.SetEnvPrefix("HFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var settings struct {
		Device Config `mapstructure:"device"`
	}
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := settings.Device.Validate(); err != nil {
		return nil, err
	}
	return &settings.Device, nil
}

// Validate checks the sector size and partition selection
func (c *Config) Validate() error {
	switch c.SectorSize {
	case 512, 1024, 2048, 4096:
	default:
		return fmt.Errorf("unsupported sector size %d", c.SectorSize)
	}
	if c.Partition < AutoPartition {
		return fmt.Errorf("invalid partition index %d", c.Partition)
	}
	return nil
}

// TestDataFile returns the path of a test image below the configured test data directory
func (c *Config) TestDataFile(name string) string {
	return filepath.Join(c.TestDataPath, name)
}
