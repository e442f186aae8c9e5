package refitgen

import "fmt"

var (
	// version is set via ldflags during build by GoReleaser
	// For development builds, this will show "dev"
	version = "dev"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// UserAgent returns the User-Agent string sent when fetching remote
// OpenAPI documents.
func UserAgent() string {
	return fmt.Sprintf("refitgen/%s", version)
}

// GeneratorName returns the tool identifier stamped into the
// auto-generated header of every output file.
func GeneratorName() string {
	return fmt.Sprintf("refitgen v%s", version)
}
