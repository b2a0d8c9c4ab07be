// Package sync implements the offline-first synchronization engine: a
// deduplicated priority queue drained serially while online, per-entity
// remote adapters, error classification with fixed-delay retries, and a
// status publisher observers subscribe to.
//
// The queue is never persisted. It is a cache of work implied by the
// dirty-flags on the stored entities (synced=false, pendingSync=true), so
// after a crash it is rebuilt from durable data on the next online
// transition.
package sync

import "time"

// TaskType tags a sync task. The ordinal doubles as the drain priority:
// sales first (time-sensitive financial records), then products, then
// settings.
type TaskType int

const (
	TaskSales TaskType = iota + 1
	TaskProducts
	TaskSettings
)

func (t TaskType) String() string {
	switch t {
	case TaskSales:
		return "sales"
	case TaskProducts:
		return "products"
	case TaskSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// task is a queued unit of work. At most one task per type exists in the
// queue at any time.
type task struct {
	Type       TaskType
	EnqueuedAt time.Time
}
