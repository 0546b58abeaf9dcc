// File: utils/constants.go
package utils

import "time"

// EmployeeLockPrefix is the prefix for per-employee scheduling lock keys.
const EmployeeLockPrefix = "schedlock:employee:"

// EmployeeLockTTL caps how long a scheduling lock may be held before it
// expires on its own (crash safety).
const EmployeeLockTTL = 10 * time.Second

// QueueCachePrefix is the prefix for cached queue views.
const QueueCachePrefix = "queueview:"

// QueueCacheTTL is the time-to-live for cached queue views.
const QueueCacheTTL = 15 * time.Second
