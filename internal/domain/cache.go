package domain

import "time"

// MetadataCache is the in-process TTL cache capability fetch components may
// use. Injected by the composition root and owned by the process lifetime,
// never a package-level singleton.
type MetadataCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	// IsFresh reports whether the key exists and was written within maxAge.
	IsFresh(key string, maxAge time.Duration) bool
}
