package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gym-desk-go/internal/domain/members"
)

type Service struct {
	members *members.Service
	repo    Repository
	now     func() time.Time
}

func NewService(membersService *members.Service, repo Repository) *Service {
	return &Service{members: membersService, repo: repo, now: time.Now}
}

// NewServiceWithClock fixes the gate's notion of "now" for tests.
func NewServiceWithClock(membersService *members.Service, repo Repository, now func() time.Time) *Service {
	return &Service{members: membersService, repo: repo, now: now}
}

// CheckIn resolves the identifier, resyncs the member's status and decides
// admit or deny. An event is recorded only on admit; a deny with no stale
// flag to flip performs no writes.
func (s *Service) CheckIn(ctx context.Context, identifier string) (*Decision, error) {
	member, err := s.members.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	wasActive := member.Active

	status, err := s.members.SyncStatus(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	decision := &Decision{
		MemberID:   status.Member.ID,
		MemberName: status.Member.FullName(),
	}

	if status.Valid != nil {
		event := Event{
			ID:          uuid.NewString(),
			MemberID:    status.Member.ID,
			CheckedInAt: today.UTC(),
		}
		if err := s.repo.CreateEvent(ctx, &event); err != nil {
			return nil, err
		}

		decision.Admitted = true
		decision.MembershipType = status.Valid.Type
		decision.StartDate = members.DateOnly(status.Valid.StartDate)
		decision.EndDate = members.DateOnly(status.Valid.EndDate)
		decision.DaysRemaining = status.Valid.DaysRemaining(today)
		decision.Reactivated = !wasActive && status.Member.Active
		decision.Event = &event
		return decision, nil
	}

	decision.Deactivated = wasActive && !status.Member.Active
	decision.Reason, decision.DaysOverdue = denyReason(status, today)
	return decision, nil
}

// denyReason picks the user-facing reason by priority: a paid membership
// that ran out, then an unpaid one, then no membership at all. A paid
// membership whose start date is still ahead gets its own reason.
func denyReason(status *members.Status, today time.Time) (DenyReason, int) {
	if status.LatestPaid != nil && status.LatestPaid.IsOverdue(today) {
		return ReasonExpired, status.LatestPaid.DaysOverdue(today)
	}
	if status.Latest != nil && !status.Latest.Paid {
		return ReasonPendingPayment, 0
	}
	if status.Latest == nil {
		return ReasonNoMembership, 0
	}
	return ReasonNotStarted, 0
}

func (s *Service) History(ctx context.Context, filter HistoryFilter) ([]EventRecord, int64, error) {
	return s.repo.ListEvents(ctx, filter)
}

// HistoryForMember returns the member's latest entries for the detail view.
func (s *Service) HistoryForMember(ctx context.Context, memberID string, limit int) ([]EventRecord, int64, error) {
	return s.repo.ListEvents(ctx, HistoryFilter{MemberID: memberID, Limit: limit})
}

func (s *Service) Recent(ctx context.Context, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecent(ctx, limit)
}
