// Package kvstore provides the local single-slot key-value storage
// primitives backing the gallery store: a bbolt file store (the default),
// a SQLite store, and an in-process map for tests and ephemeral sessions.
package kvstore

import "errors"

// SlotQuota is the maximum size of a single stored value. Mirrors the
// per-origin quota of browser local storage.
const SlotQuota = 5 << 20 // 5MiB

// ErrQuotaExceeded is returned when a write would exceed SlotQuota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")
