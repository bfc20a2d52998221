package utils

import "time"

// State file naming. Snapshot files live inside the destination directory
// and carry this prefix so the reconciler never treats them as orphans.
const (
	StateFilePrefix = ".driveback-state-"
	StateFileSuffix = ".json"
)

// TempFileSuffix marks in-flight downloads next to their destination path.
const TempFileSuffix = ".tmp"

// ModTimeTolerance is the slack allowed between remote and local
// modification times before a file is considered changed. Local
// filesystems round timestamps with varying granularity; only a remote
// time newer by more than this triggers a re-download.
const ModTimeTolerance = 2 * time.Second
