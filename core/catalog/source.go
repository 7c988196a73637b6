package catalog

import "context"

// Source produces a complete catalog or fails; partial catalogs are never returned.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}
