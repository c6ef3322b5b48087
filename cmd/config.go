package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

var deviceConfig *device.Config

// initConfig reads the config file and environment, then applies the logging settings
func initConfig() error {
	if configFile != "" {
		settings.SetConfigFile(configFile)
	}

	cfg, err := device.LoadConfig(settings)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}
	deviceConfig = cfg

	logCfg, err := app.LoadLogConfig(settings)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}
	closer, err := app.ConfigureLogging(logrus.StandardLogger(), logCfg, verbose, quiet)
	if err != nil {
		return err
	}
	logFile = closer

	if used := settings.ConfigFileUsed(); used != "" {
		logrus.WithField("file", used).Debug("Loaded configuration")
	}
	return nil
}
