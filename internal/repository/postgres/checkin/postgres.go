package checkin

import (
	"context"
	"time"

	"gorm.io/gorm"
	checkindomain "gym-desk-go/internal/domain/checkin"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateEvent(ctx context.Context, event *checkindomain.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *PostgresRepository) ListEvents(ctx context.Context, filter checkindomain.HistoryFilter) ([]checkindomain.EventRecord, int64, error) {
	base := r.db.WithContext(ctx).
		Table("check_in_events").
		Joins("join members on members.id = check_in_events.member_id")

	if filter.From != nil {
		base = base.Where("check_in_events.checked_in_at >= ?", *filter.From)
	}
	if filter.To != nil {
		base = base.Where("check_in_events.checked_in_at < ?", *filter.To)
	}
	if filter.MemberID != "" {
		base = base.Where("check_in_events.member_id = ?", filter.MemberID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.
		Select("check_in_events.id, check_in_events.member_id, check_in_events.checked_in_at, members.first_name || ' ' || members.last_name as member_name").
		Order("check_in_events.checked_in_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []eventRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return toRecords(rows), total, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]checkindomain.EventRecord, error) {
	var rows []eventRow
	err := r.db.WithContext(ctx).
		Table("check_in_events").
		Joins("join members on members.id = check_in_events.member_id").
		Select("check_in_events.id, check_in_events.member_id, check_in_events.checked_in_at, members.first_name || ' ' || members.last_name as member_name").
		Order("check_in_events.checked_in_at desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

type eventRow struct {
	ID          string
	MemberID    string
	CheckedInAt time.Time
	MemberName  string
}

func toRecords(rows []eventRow) []checkindomain.EventRecord {
	records := make([]checkindomain.EventRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, checkindomain.EventRecord{
			Event: checkindomain.Event{
				ID:          row.ID,
				MemberID:    row.MemberID,
				CheckedInAt: row.CheckedInAt,
			},
			MemberName: row.MemberName,
		})
	}
	return records
}
