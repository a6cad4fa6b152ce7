package crawler

// State is the phase a crawl is in.
//
// A crawl moves through LevelPending, LevelFetching and LevelDone once per
// depth, in that order, and ends in Finished. Levels never overlap.
type State int

const (
	// StateIdle is the state of a Spider that has not started crawling.
	StateIdle State = iota

	// StateLevelPending means the frontier of a level is known but the
	// per-level cap has not been applied yet.
	StateLevelPending

	// StateLevelFetching means the admitted URLs of a level are being fetched.
	StateLevelFetching

	// StateLevelDone means every fetch of the level has completed and its
	// records and links have been merged.
	StateLevelDone

	// StateFinished means the crawl has ended, either because the maximum
	// depth was reached, a frontier was empty or the context was cancelled.
	StateFinished
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLevelPending:
		return "level pending"
	case StateLevelFetching:
		return "level fetching"
	case StateLevelDone:
		return "level done"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// LevelEvent describes a state transition of the crawl.
type LevelEvent struct {
	// State is the state just entered.
	State State

	// Depth is the zero-based level. For StateFinished it is the last
	// level that was started, or -1 if none was.
	Depth int

	// MaxDepth is the configured number of levels.
	MaxDepth int

	// Frontier is the number of URLs queued for the level.
	Frontier int

	// Admitted is the number of URLs fetched at the level after the cap.
	Admitted int

	// Dropped is the number of URLs discarded by the cap.
	Dropped int

	// Fetched is the number of admitted URLs that produced a record.
	// Only set for StateLevelDone.
	Fetched int

	// Collected is the total number of records so far.
	Collected int
}

// LevelObserver is notified of every state transition. It is called from
// the crawl's control goroutine and must not block for long.
type LevelObserver func(LevelEvent)
