// Package cloudwriter streams event files to object storage.
package cloudwriter

// CloudWriter accumulates one object. Nothing is visible remotely until
// Close returns nil.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
