// Package array is the public façade: it wires the scan engine, allocator,
// parity loop, and content store together into the command-level surface
// spec.md §6 describes (Scan, Dry, Check, Sync, Fix), so an embedder never
// has to touch the internal packages directly.
package array

import (
	"github.com/CrawX/snapraid/internal/filter"
	"github.com/CrawX/snapraid/internal/platform"
	"github.com/CrawX/snapraid/internal/telemetry"
)

// DiskConfig names one data disk and its root directory.
type DiskConfig struct {
	Name string
	Root string
}

// Config is the programmatic configuration for Open. Collaborators left
// nil fall back to sensible concrete defaults (the real OS filesystem and
// opener, a no-op filter, a logrus-backed telemetry sink).
type Config struct {
	Disks      []DiskConfig
	BlockSize  int64
	ParityPath string

	Filter     filter.Filter
	FS         platform.FS
	Opener     platform.Opener
	Log        telemetry.Log
	Progress   telemetry.Progress
	Usage      telemetry.Usage

	ForceZero  bool
	ForceEmpty bool
	Verbose    bool
}

func (c Config) withDefaults() Config {
	if c.Filter == nil {
		c.Filter = filter.Everything{}
	}
	if c.FS == nil {
		c.FS = platform.NewOSFileSystem()
	}
	if c.Opener == nil {
		c.Opener = platform.NewOSOpener()
	}
	if c.Log == nil {
		c.Log = telemetry.NewLogrus(nil)
	}
	if c.Progress == nil {
		c.Progress = telemetry.NewLogrusProgress(nil)
	}
	if c.Usage == nil {
		c.Usage = telemetry.NewLogrusUsage(nil)
	}
	return c
}
