package rules

import "context"

// Source supplies raw rule definitions to the loader. Identifiers are
// opaque strings; recognizing rule files (extension filtering) is the
// source's job.
type Source interface {
	// List returns the identifiers of all rule files under dir
	List(ctx context.Context, dir string) ([]string, error)

	// Read returns the raw bytes of one rule file
	Read(ctx context.Context, identifier string) ([]byte, error)

	// Write stores a serialized rule under the given identifier
	Write(ctx context.Context, identifier string, data []byte) error
}
