// ABOUTME: Tests for product and version constants
// ABOUTME: Checks the version is semver and the names are usable in output
package version

import (
	"regexp"
	"strings"
	"testing"
)

var semver = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(-[0-9A-Za-z.-]+)?$`)

func TestVersionIsSemver(t *testing.T) {
	if !semver.MatchString(Version) {
		t.Errorf("Version %q is not a semantic version", Version)
	}
	if strings.HasPrefix(Version, "v") {
		t.Errorf("Version %q should not carry a v prefix", Version)
	}
}

func TestProductNames(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Product", Product},
		{"Manufacturer", Manufacturer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if strings.TrimSpace(tt.value) == "" {
				t.Fatalf("%s is empty", tt.name)
			}
			if tt.value != strings.TrimSpace(tt.value) {
				t.Errorf("%s %q has surrounding whitespace", tt.name, tt.value)
			}
		})
	}
}
