package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/internal/services"
)

// Volume is an opened image together with the HFS volume located in it
type Volume struct {
	*services.Volume
	Device *device.Device
}

// OpenVolume opens target with the context's device options and decodes its volume
func OpenVolume(ctx *Context, target ImageTarget) (*Volume, error) {
	cfg := device.DefaultConfig()
	if ctx.Device != nil {
		copied := *ctx.Device
		cfg = &copied
	}
	cfg.Partition = target.Partition

	log := ctx.logger().WithField("image", target.Path)
	dev, err := device.Open(target.Path, cfg, log)
	if err != nil {
		return nil, WrapError(fmt.Sprintf("failed to open %s", target.String()), err)
	}

	vol, err := services.OpenVolume(dev, nil, log.WithField("dialect", dev.Dialect()))
	if err != nil {
		dev.Close()
		return nil, WrapError("failed to decode volume", err)
	}

	log.WithFields(logrus.Fields{
		"dialect": dev.Dialect(),
		"offset":  dev.VolumeOffset(),
		"scheme":  dev.Scheme(),
	}).Debug("Opened volume")
	return &Volume{Volume: vol, Device: dev}, nil
}

// Close releases the underlying image
func (v *Volume) Close() error {
	return v.Device.Close()
}
