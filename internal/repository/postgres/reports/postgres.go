package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	membersdomain "gym-desk-go/internal/domain/members"
	reportsdomain "gym-desk-go/internal/domain/reports"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountMembers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&membersdomain.Member{}).Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountActiveMembers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&membersdomain.Member{}).
		Where("active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountValidMemberships(ctx context.Context, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&membersdomain.Membership{}).
		Where("paid = ? AND start_date <= ? AND end_date >= ?", true, today, today).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) SumPaymentsBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&membersdomain.Payment{}).
		Select("SUM(amount)").
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *PostgresRepository) CountCheckInsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("check_in_events").
		Where("checked_in_at >= ? AND checked_in_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) ListExpiringBetween(ctx context.Context, today, until time.Time) ([]reportsdomain.ExpiringMembership, error) {
	var rows []expiryRow
	err := r.db.WithContext(ctx).
		Table("memberships").
		Joins("join members on members.id = memberships.member_id").
		Select("memberships.id as membership_id, memberships.member_id, members.first_name || ' ' || members.last_name as member_name, memberships.type, memberships.end_date").
		Where("memberships.paid = ? AND memberships.end_date >= ? AND memberships.end_date <= ?", true, today, until).
		Order("memberships.end_date asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]reportsdomain.ExpiringMembership, 0, len(rows))
	for _, row := range rows {
		result = append(result, reportsdomain.ExpiringMembership{
			MembershipID: row.MembershipID,
			MemberID:     row.MemberID,
			MemberName:   row.MemberName,
			Type:         membersdomain.MembershipType(row.Type),
			EndDate:      row.EndDate,
		})
	}
	return result, nil
}

func (r *PostgresRepository) ListExpiredBetween(ctx context.Context, since, today time.Time) ([]reportsdomain.ExpiredMembership, error) {
	var rows []expiryRow
	err := r.db.WithContext(ctx).
		Table("memberships").
		Joins("join members on members.id = memberships.member_id").
		Select("memberships.id as membership_id, memberships.member_id, members.first_name || ' ' || members.last_name as member_name, memberships.type, memberships.end_date").
		Where("memberships.paid = ? AND memberships.end_date < ? AND memberships.end_date >= ?", true, today, since).
		Order("memberships.end_date desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]reportsdomain.ExpiredMembership, 0, len(rows))
	for _, row := range rows {
		result = append(result, reportsdomain.ExpiredMembership{
			MembershipID: row.MembershipID,
			MemberID:     row.MemberID,
			MemberName:   row.MemberName,
			Type:         membersdomain.MembershipType(row.Type),
			EndDate:      row.EndDate,
		})
	}
	return result, nil
}

func (r *PostgresRepository) ListMemberRows(ctx context.Context) ([]reportsdomain.MemberRow, error) {
	var list []membersdomain.Member
	if err := r.db.WithContext(ctx).Order("registered_at desc").Find(&list).Error; err != nil {
		return nil, err
	}

	rows := make([]reportsdomain.MemberRow, 0, len(list))
	for _, member := range list {
		rows = append(rows, reportsdomain.MemberRow{
			FirstName:    member.FirstName,
			LastName:     member.LastName,
			Phone:        member.Phone,
			Email:        member.Email,
			RegisteredAt: member.RegisteredAt,
			Active:       member.Active,
		})
	}
	return rows, nil
}

type expiryRow struct {
	MembershipID string
	MemberID     string
	MemberName   string
	Type         string
	EndDate      time.Time
}
