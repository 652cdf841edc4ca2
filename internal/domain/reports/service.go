package reports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"gym-desk-go/internal/domain/members"
)

type Service struct {
	repo Repository

	expiringWindowDays  int
	expiredLookbackDays int

	now func() time.Time
}

func NewService(repo Repository, expiringWindowDays, expiredLookbackDays int) *Service {
	if expiringWindowDays <= 0 {
		expiringWindowDays = 7
	}
	if expiredLookbackDays <= 0 {
		expiredLookbackDays = 30
	}
	return &Service{
		repo:                repo,
		expiringWindowDays:  expiringWindowDays,
		expiredLookbackDays: expiredLookbackDays,
		now:                 time.Now,
	}
}

// Dashboard assembles the read-only aggregates for the staff landing page.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	today := members.DateOnly(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	totalMembers, err := s.repo.CountMembers(ctx)
	if err != nil {
		return nil, err
	}
	activeMembers, err := s.repo.CountActiveMembers(ctx)
	if err != nil {
		return nil, err
	}
	validMemberships, err := s.repo.CountValidMemberships(ctx, today)
	if err != nil {
		return nil, err
	}
	monthPayments, err := s.repo.SumPaymentsBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	todayCheckIns, err := s.repo.CountCheckInsBetween(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	expiring, err := s.repo.ListExpiringBetween(ctx, today, today.AddDate(0, 0, s.expiringWindowDays))
	if err != nil {
		return nil, err
	}
	for i := range expiring {
		expiring[i].DaysRemaining = daysBetween(today, expiring[i].EndDate)
	}

	expired, err := s.repo.ListExpiredBetween(ctx, today.AddDate(0, 0, -s.expiredLookbackDays), today)
	if err != nil {
		return nil, err
	}
	for i := range expired {
		expired[i].DaysOverdue = daysBetween(expired[i].EndDate, today)
	}

	return &Dashboard{
		TotalMembers:     totalMembers,
		ActiveMembers:    activeMembers,
		ValidMemberships: validMemberships,
		MonthPayments:    monthPayments,
		TodayCheckIns:    todayCheckIns,
		ExpiringSoon:     expiring,
		RecentlyExpired:  expired,
	}, nil
}

// ExportMembersCSV streams the member table as CSV.
func (s *Service) ExportMembersCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.repo.ListMemberRows(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"first_name", "last_name", "phone", "email", "registered_at", "active"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.FirstName,
			row.LastName,
			row.Phone,
			row.Email,
			row.RegisteredAt.UTC().Format(time.RFC3339),
			strconv.FormatBool(row.Active),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func daysBetween(from, to time.Time) int {
	days := int(members.DateOnly(to).Sub(members.DateOnly(from)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
