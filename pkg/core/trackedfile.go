package core

// TrackedFile is one file of a working-copy snapshot as reported by the
// version control system. A snapshot is an ordered slice of these; the
// provider's order is significant and drives tie-breaking during
// reference resolution.
type TrackedFile struct {
	// Path is the absolute path and identifies the file within a snapshot.
	Path string
	// Name is the base name, used for filename matching.
	Name string
	// RelPath is the path relative to the project root. This is the form
	// surfaced in results and in published output.
	RelPath string
}
