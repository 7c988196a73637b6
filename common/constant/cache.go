package constant

import "time"

const (
	SessionKey         = "catering:session:%s"
	CatalogSnapshotKey = "catering:catalog:%s"
)

const (
	SessionDefaultTTL = 2 * time.Hour
	CatalogDefaultTTL = 24 * time.Hour
)
