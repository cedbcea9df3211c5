// ABOUTME: Product and version constants
// ABOUTME: Reported by the version command and in startup logs
package version

const (
	// Version is the release version of chime
	Version = "0.3.0"

	// Product is the display name of the player
	Product = "Chime Player"

	// Manufacturer identifies the publisher
	Manufacturer = "Chime Audio"
)
