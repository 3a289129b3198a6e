package castr

// version is stamped through ldflags at release time; source builds report
// "dev".
var version = "dev"

// Version returns the release version, or "dev" when built from source.
func Version() string {
	return version
}
