package state

import "path/filepath"

const (
	// DefaultDirectory is the state directory used when none is configured.
	DefaultDirectory = "/var/lib/qol-assist"
	// ProgressFileName holds the next migration index to run.
	ProgressFileName = "status"
	// ArmingFileName is the sentinel that permits a migration run.
	ArmingFileName = "trigger"

	directoryPermissionsConstant = 0o755
	filePermissionsConstant      = 0o644
)

// Layout locates the persisted state files inside a state directory.
type Layout struct {
	Directory string
}

// NewLayout returns a Layout for directory, falling back to DefaultDirectory.
func NewLayout(directory string) Layout {
	if len(directory) == 0 {
		directory = DefaultDirectory
	}
	return Layout{Directory: directory}
}

// ProgressPath returns the progress marker location.
func (layout Layout) ProgressPath() string {
	return filepath.Join(layout.Directory, ProgressFileName)
}

// ArmingPath returns the arming sentinel location.
func (layout Layout) ArmingPath() string {
	return filepath.Join(layout.Directory, ArmingFileName)
}
