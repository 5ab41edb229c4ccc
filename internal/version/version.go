// Package version reports the build the binary came from.
package version

// These variables are set at build time using ldflags.
// Example: go build -ldflags "-X github.com/abdullathedruid/rctf/internal/version.GitSHA=$(git rev-parse --short HEAD)"
var (
	// GitSHA is the git commit SHA (short form) at build time.
	GitSHA = "dev"

	// BuildDate is the build timestamp, empty for local builds.
	BuildDate = ""
)

// Short returns a short version string suitable for display.
func Short() string {
	return GitSHA
}

// Full returns the SHA followed by the build date when one was recorded.
func Full() string {
	if BuildDate == "" {
		return GitSHA
	}
	return GitSHA + " (built " + BuildDate + ")"
}
