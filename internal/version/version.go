// Package version carries build metadata injected via -ldflags.
package version

var (
	// Version is the release version.
	Version = ""
	// Commit is the git commit hash.
	Commit = ""
)

// String renders the version for CLI output.
func String() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit == "" {
		return v
	}
	c := Commit
	if len(c) > 12 {
		c = c[:12]
	}
	return v + " (" + c + ")"
}
