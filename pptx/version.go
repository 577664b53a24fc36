package pptx

import "fmt"

// Version information for the AutomatedPowerPoint pptx library.
const (
	VersionMajor = 1
	VersionMinor = 2
	VersionPatch = 0
)

// Version is the full version string, overridable at link time.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
