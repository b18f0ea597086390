package coach

import "context"

// Store persists conversational state and the bounded chat transcript.
type Store interface {
	// State returns the pending follow-up context, or a zero State when idle.
	State(ctx context.Context, userID int64) (State, error)
	SaveState(ctx context.Context, userID int64, st State) error
	ClearState(ctx context.Context, userID int64) error

	// AppendHistory adds an entry and trims the transcript to the most recent
	// limit entries, dropping the oldest first.
	AppendHistory(ctx context.Context, userID int64, entry HistoryEntry, limit int) error
	// History returns the transcript most-recent-last.
	History(ctx context.Context, userID int64) ([]HistoryEntry, error)
}
