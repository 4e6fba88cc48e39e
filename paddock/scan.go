package paddock

import "time"

// DefaultScanSkew is the tolerance between an edit write and its recorded
// timestamp. An edit landing within this window of the last scan is treated
// as already covered by that scan; it absorbs clock and write-order skew
// between the content update and the scan bookkeeping, nothing more.
const DefaultScanSkew = 2 * time.Second

// ScanState classifies a post against its last moderation scan.
type ScanState int

const (
	// ScanStateClean means the last scan still covers the current content.
	ScanStateClean ScanState = iota
	// ScanStateNew means the post has never been scanned.
	ScanStateNew
	// ScanStateModified means the post changed since its last scan.
	ScanStateModified
)

// Label returns the badge text the moderation view shows for the state.
func (s ScanState) Label() string {
	switch s {
	case ScanStateNew:
		return "New Content"
	case ScanStateModified:
		return "Modified"
	default:
		return ""
	}
}

// NeedsScan reports whether the state requires a fresh scan.
func (s ScanState) NeedsScan() bool {
	return s != ScanStateClean
}

// Staleness decides whether a post needs a fresh moderation scan. It is a
// pure function of the two stored timestamps: never scanned means stale,
// and an update landing more than skew after the last scan means stale.
// Exactly skew apart is still clean.
func Staleness(updatedAt, lastScanAt time.Time, skew time.Duration) ScanState {
	if lastScanAt.IsZero() {
		return ScanStateNew
	}
	if updatedAt.Sub(lastScanAt) > skew {
		return ScanStateModified
	}
	return ScanStateClean
}

// NeedsScan applies Staleness with the default skew tolerance.
func NeedsScan(updatedAt, lastScanAt time.Time) bool {
	return Staleness(updatedAt, lastScanAt, DefaultScanSkew).NeedsScan()
}
