// Package device opens disk images and locates the HFS-family volume inside them.
package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-hfs/internal/types"
)

// Device is the HFS volume of an opened image, addressed from the start of the volume
type Device struct {
	image      *Image
	volume     *Section
	location   VolumeLocation
	scheme     types.PartitionScheme
	partitions []Partition
	partition  *Partition
	stats      Statistics
	statsMu    sync.Mutex
}

// Statistics tracks how the volume was located and how much of it was read
type Statistics struct {
	DetectionMethod string
	DetectionTime   time.Duration
	Reads           int64
	BytesRead       int64
}

// Open opens the image at path and locates its volume. With cfg.Partition set the partition
// of that index is used, otherwise the first HFS partition or the whole image.
func Open(path string, cfg *Config, log *logrus.Entry) (*Device, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := OpenImage(path)
	if err != nil {
		return nil, err
	}
	d := &Device{image: img, scheme: types.SchemeNone}

	start := time.Now()
	if err := d.locate(cfg, log); err != nil {
		img.Close()
		return nil, err
	}
	d.stats.DetectionTime = time.Since(start)

	log.WithFields(logrus.Fields{
		"format":  img.Format(),
		"scheme":  d.scheme,
		"dialect": d.location.Dialect,
		"offset":  d.volume.Offset(),
		"method":  d.stats.DetectionMethod,
	}).Debug("Located volume")
	return d, nil
}

func (d *Device) locate(cfg *Config, log *logrus.Entry) error {
	region, err := NewSection(d.image, 0, d.image.Size())
	if err != nil {
		return err
	}
	d.stats.DetectionMethod = "whole image"

	if cfg.PartitionScan || cfg.Partition != AutoPartition {
		parts, scheme, err := ListPartitions(d.image, cfg.SectorSize)
		if err != nil {
			return err
		}
		d.partitions, d.scheme = parts, scheme

		var selected *Partition
		if cfg.Partition != AutoPartition {
			for i := range parts {
				if parts[i].Index == cfg.Partition {
					selected = &parts[i]
					break
				}
			}
			if selected == nil {
				return fmt.Errorf("partition %d in %s map: %w", cfg.Partition, scheme, types.ErrNotFound)
			}
		} else if p, ok := FirstHFS(parts); ok {
			selected = &p
		} else if len(parts) > 0 {
			log.WithField("scheme", scheme).Warn("No HFS partition found, reading the whole image")
		}

		if selected != nil {
			region, err = NewSection(d.image, selected.Offset, selected.Size)
			if err != nil {
				return fmt.Errorf("partition %d: %w", selected.Index, err)
			}
			d.partition = selected
			d.stats.DetectionMethod = string(scheme)
		}
	}

	loc, err := DetectVolume(region)
	if err != nil {
		return err
	}
	if loc.Wrapped {
		d.stats.DetectionMethod += "+wrapper"
	}
	d.location = loc
	d.volume, err = NewSection(d.image, region.Offset()+loc.Offset, loc.Length)
	return err
}

// ReadAt reads relative to the start of the volume
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	n, err := d.volume.ReadAt(p, off)
	d.statsMu.Lock()
	d.stats.Reads++
	d.stats.BytesRead += int64(n)
	d.statsMu.Unlock()
	return n, err
}

// Size returns the volume length
func (d *Device) Size() int64 { return d.volume.Size() }

// Close closes the underlying image
func (d *Device) Close() error {
	if d.image != nil {
		return d.image.Close()
	}
	return nil
}

// Dialect returns the dialect announced by the volume signature
func (d *Device) Dialect() types.Dialect { return d.location.Dialect }

// Location returns where the volume sits in its partition, or in the image when unpartitioned
func (d *Device) Location() VolumeLocation { return d.location }

// VolumeOffset returns the byte offset of the volume in the image
func (d *Device) VolumeOffset() int64 { return d.volume.Offset() }

// Image returns the opened image
func (d *Device) Image() *Image { return d.image }

// Scheme returns the partition map found on the image
func (d *Device) Scheme() types.PartitionScheme { return d.scheme }

// Partitions returns the entries of the partition map
func (d *Device) Partitions() []Partition { return d.partitions }

// Partition returns the partition holding the volume, if any
func (d *Device) Partition() (Partition, bool) {
	if d.partition == nil {
		return Partition{}, false
	}
	return *d.partition, true
}

// Stats returns a snapshot of the access statistics
func (d *Device) Stats() Statistics {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	return d.stats
}
