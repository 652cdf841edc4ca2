package checkin

import "context"

type Repository interface {
	CreateEvent(ctx context.Context, event *Event) error
	// ListEvents returns events newest first.
	ListEvents(ctx context.Context, filter HistoryFilter) ([]EventRecord, int64, error)
	ListRecent(ctx context.Context, limit int) ([]EventRecord, error)
}
