package config

import (
	"os"
	"path/filepath"
)

const (
	CardsDirName    = "cards"
	PaletteFileName = "palette.json"
	RecordExt       = ".json"
	ImageExt        = ".png"
	ExportDirName   = "kard-export"
	GlobalConfigDir = ".config/kard"
	ConfigFileName  = "config.toml"
)

// Paths provides path resolution for kard data files. All record, image and
// palette files live flat in one storage directory; their naming schemes are
// disjoint (<id>.json, <id>.png, palette.json) so the subsystems never
// collide.
type Paths struct {
	baseDir      string
	dataLocation string // Custom location from config, empty for default
}

// NewPaths creates a new Paths resolver. baseDir is the application's
// private document directory; dataLocation overrides the storage directory
// entirely when non-empty.
func NewPaths(baseDir string, dataLocation string) *Paths {
	return &Paths{
		baseDir:      baseDir,
		dataLocation: dataLocation,
	}
}

// StorageDir returns the directory holding all record, image and palette
// files.
func (p *Paths) StorageDir() string {
	if p.dataLocation != "" {
		return p.dataLocation
	}
	return filepath.Join(p.baseDir, CardsDirName)
}

// CardPath returns the record file path for a card id.
func (p *Paths) CardPath(cardID string) string {
	return filepath.Join(p.StorageDir(), cardID+RecordExt)
}

// ImagePath returns the path of an image file inside the storage directory.
func (p *Paths) ImagePath(filename string) string {
	return filepath.Join(p.StorageDir(), filename)
}

// PalettePath returns the palette file path.
func (p *Paths) PalettePath() string {
	return filepath.Join(p.StorageDir(), PaletteFileName)
}

// ExportStagingDir returns the staging directory used to assemble export
// bundles. It is cleared before every export.
func (p *Paths) ExportStagingDir() string {
	return filepath.Join(os.TempDir(), ExportDirName)
}

// GlobalConfigPath returns the path to the user config file.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, ConfigFileName)
}
