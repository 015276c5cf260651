// Package imageload resolves Markdown image references, local or
// remote, relative to the location of the viewed document.
package imageload

// Outcome is the terminal result of resolving one image reference.
// Exactly one of a payload (Bytes or Path) or Err is set; a
// not-yet-resolved state is not representable.
type Outcome struct {
	// Location is a human readable form of the resolved location: the
	// normalized filesystem path or the absolute URL.
	Location string

	// Bytes is the fetched content of a remote reference.
	Bytes []byte

	// Path is the normalized filesystem path of a local reference.
	Path string

	// Err describes the failure, if any.
	Err string
}

// Failed reports whether the resolution ended in a failure.
func (o Outcome) Failed() bool { return o.Err != "" }

func failure(location, message string) Outcome {
	return Outcome{Location: location, Err: message}
}
