package vars

import (
	"catering-quote/core/catalog"
	"sync/atomic"
)

var catalogPtr atomic.Pointer[catalog.Catalog]

// GetCatalog returns the process-wide catalog, or nil before the first load.
// Sessions only ever read it.
func GetCatalog() *catalog.Catalog {
	return catalogPtr.Load()
}

// SetCatalog swaps in a freshly loaded catalog. Passing nil clears it.
func SetCatalog(c *catalog.Catalog) {
	catalogPtr.Store(c)
}
