package fake

// BadHash is a fake writer that fails when writing, to test fingerprint
// implementations.
//
// - implements io.Writer
type BadHash struct{}

// NewBadHash returns a writer that always fails.
func NewBadHash() BadHash {
	return BadHash{}
}

// Write implements io.Writer.
func (BadHash) Write(p []byte) (int, error) {
	return 0, GetError()
}
