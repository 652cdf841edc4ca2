package checkin

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gym-desk-go/internal/domain/members"
)

// fakeMembersRepo is a map-backed stand-in for the postgres repository so the
// gate can run against a real members.Service.
type fakeMembersRepo struct {
	members     map[string]*members.Member
	memberships map[string]*members.Membership
	payments    map[string]*members.Payment
}

func newFakeMembersRepo() *fakeMembersRepo {
	return &fakeMembersRepo{
		members:     make(map[string]*members.Member),
		memberships: make(map[string]*members.Membership),
		payments:    make(map[string]*members.Payment),
	}
}

func (r *fakeMembersRepo) Transaction(ctx context.Context, fn func(members.Repository) error) error {
	return fn(r)
}

func (r *fakeMembersRepo) CreateMember(ctx context.Context, member *members.Member) error {
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeMembersRepo) UpdateMember(ctx context.Context, member *members.Member) error {
	if _, ok := r.members[member.ID]; !ok {
		return members.ErrMemberNotFound
	}
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeMembersRepo) GetMemberByID(ctx context.Context, id string) (*members.Member, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, members.ErrMemberNotFound
	}
	copied := *member
	return &copied, nil
}

func (r *fakeMembersRepo) GetMemberByEmail(ctx context.Context, email string) (*members.Member, error) {
	for _, member := range r.members {
		if member.Email == email {
			copied := *member
			return &copied, nil
		}
	}
	return nil, members.ErrMemberNotFound
}

func (r *fakeMembersRepo) GetMemberByAccessCode(ctx context.Context, code string) (*members.Member, error) {
	var newest *members.Member
	for _, member := range r.members {
		if member.AccessCode != code {
			continue
		}
		if newest == nil || member.RegisteredAt.After(newest.RegisteredAt) {
			newest = member
		}
	}
	if newest == nil {
		return nil, members.ErrMemberNotFound
	}
	copied := *newest
	return &copied, nil
}

func (r *fakeMembersRepo) ListMembers(ctx context.Context) ([]members.Member, error) {
	list := make([]members.Member, 0, len(r.members))
	for _, member := range r.members {
		list = append(list, *member)
	}
	return list, nil
}

func (r *fakeMembersRepo) DeleteMember(ctx context.Context, id string) (bool, error) {
	if _, ok := r.members[id]; !ok {
		return false, nil
	}
	delete(r.members, id)
	return true, nil
}

func (r *fakeMembersRepo) SetMemberActive(ctx context.Context, id string, active bool) error {
	member, ok := r.members[id]
	if !ok {
		return members.ErrMemberNotFound
	}
	member.Active = active
	return nil
}

func (r *fakeMembersRepo) CreateMembership(ctx context.Context, membership *members.Membership) error {
	copied := *membership
	r.memberships[membership.ID] = &copied
	return nil
}

func (r *fakeMembersRepo) GetMembershipByID(ctx context.Context, id string) (*members.Membership, error) {
	membership, ok := r.memberships[id]
	if !ok {
		return nil, members.ErrMembershipNotFound
	}
	copied := *membership
	return &copied, nil
}

func (r *fakeMembersRepo) ListMemberships(ctx context.Context, memberID string) ([]members.Membership, error) {
	list := make([]members.Membership, 0)
	for _, membership := range r.memberships {
		if membership.MemberID == memberID {
			list = append(list, *membership)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartDate.Equal(list[j].StartDate) {
			return list[i].StartDate.After(list[j].StartDate)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *fakeMembersRepo) SetMembershipPaid(ctx context.Context, id string, paid bool) error {
	membership, ok := r.memberships[id]
	if !ok {
		return members.ErrMembershipNotFound
	}
	membership.Paid = paid
	return nil
}

func (r *fakeMembersRepo) CreatePayment(ctx context.Context, payment *members.Payment) error {
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *fakeMembersRepo) GetPaymentByID(ctx context.Context, id string) (*members.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, members.ErrPaymentNotFound
	}
	copied := *payment
	return &copied, nil
}

func (r *fakeMembersRepo) ListPayments(ctx context.Context, membershipID string) ([]members.Payment, error) {
	list := make([]members.Payment, 0)
	for _, payment := range r.payments {
		if payment.MembershipID == membershipID {
			list = append(list, *payment)
		}
	}
	return list, nil
}

type fakeEventRepo struct {
	events []Event
	names  map[string]string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{names: make(map[string]string)}
}

func (r *fakeEventRepo) CreateEvent(ctx context.Context, event *Event) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) ListEvents(ctx context.Context, filter HistoryFilter) ([]EventRecord, int64, error) {
	records := make([]EventRecord, 0)
	for _, event := range r.events {
		if filter.MemberID != "" && event.MemberID != filter.MemberID {
			continue
		}
		records = append(records, EventRecord{Event: event, MemberName: r.names[event.MemberID]})
	}
	total := int64(len(records))
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, total, nil
}

func (r *fakeEventRepo) ListRecent(ctx context.Context, limit int) ([]EventRecord, error) {
	records, _, err := r.ListEvents(ctx, HistoryFilter{Limit: limit})
	return records, err
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type gateFixture struct {
	membersRepo *fakeMembersRepo
	eventRepo   *fakeEventRepo
	members     *members.Service
	gate        *Service
}

func newGateFixture(t *testing.T, now time.Time) *gateFixture {
	t.Helper()
	clock := func() time.Time { return now }
	membersRepo := newFakeMembersRepo()
	eventRepo := newFakeEventRepo()
	membersService := members.NewServiceWithClock(membersRepo, clock)
	return &gateFixture{
		membersRepo: membersRepo,
		eventRepo:   eventRepo,
		members:     membersService,
		gate:        NewServiceWithClock(membersService, eventRepo, clock),
	}
}

// registerMember enrolls a member with a paid monthly membership started on
// the given day, using the registration-time clock so the access code is
// derived from that year.
func (f *gateFixture) registerMember(t *testing.T, start time.Time, paid bool) *members.Member {
	t.Helper()
	member, err := f.members.CreateMember(context.Background(), members.CreateMemberInput{
		FirstName: "Ana",
		LastName:  "García",
		Phone:     "5551234567",
		Email:     "ana@example.com",
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	f.eventRepo.names[member.ID] = member.FullName()

	membership, err := f.members.CreateMembership(context.Background(), members.CreateMembershipInput{
		MemberID:  member.ID,
		Type:      "monthly",
		StartDate: start,
		Cost:      decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("create membership: %v", err)
	}

	if paid {
		if _, err := f.members.RecordPayment(context.Background(), members.RecordPaymentInput{
			MembershipID: membership.ID,
			Amount:       decimal.NewFromInt(500),
			Method:       "cash",
		}); err != nil {
			t.Fatalf("record payment: %v", err)
		}
	}
	return member
}

func TestCheckInAdmitsValidMember(t *testing.T) {
	f := newGateFixture(t, date(2024, 1, 15))
	f.registerMember(t, date(2024, 1, 1), true)

	decision, err := f.gate.CheckIn(context.Background(), "24567")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !decision.Admitted {
		t.Fatalf("expected admission, got denial %q", decision.Reason)
	}
	if decision.MemberName != "Ana García" {
		t.Fatalf("expected member name, got %q", decision.MemberName)
	}
	if decision.MembershipType != members.TypeMonthly {
		t.Fatalf("expected monthly plan, got %q", decision.MembershipType)
	}
	if decision.DaysRemaining != 16 {
		t.Fatalf("expected 16 days remaining, got %d", decision.DaysRemaining)
	}
	if !decision.EndDate.Equal(date(2024, 1, 31)) {
		t.Fatalf("expected end date 2024-01-31, got %v", decision.EndDate)
	}
	if decision.Event == nil || len(f.eventRepo.events) != 1 {
		t.Fatalf("expected exactly one recorded event")
	}
}

func TestCheckInDeniesExpiredMembership(t *testing.T) {
	// Enrollment happened while the plan was still current.
	f := newGateFixture(t, date(2024, 1, 10))
	member := f.registerMember(t, date(2024, 1, 1), true)

	// The gate sees the same store on a later day.
	later := func() time.Time { return date(2024, 2, 5) }
	membersService := members.NewServiceWithClock(f.membersRepo, later)
	gate := NewServiceWithClock(membersService, f.eventRepo, later)

	decision, err := gate.CheckIn(context.Background(), member.Email)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if decision.Admitted {
		t.Fatalf("expected denial for expired membership")
	}
	if decision.Reason != ReasonExpired {
		t.Fatalf("expected reason %q, got %q", ReasonExpired, decision.Reason)
	}
	if decision.DaysOverdue != 5 {
		t.Fatalf("expected 5 days overdue, got %d", decision.DaysOverdue)
	}
	if !decision.Deactivated {
		t.Fatalf("expected the stale active flag to be cleared")
	}
	if len(f.eventRepo.events) != 0 {
		t.Fatalf("expected no event for a denied check-in")
	}
}

func TestCheckInDeniesPendingPayment(t *testing.T) {
	f := newGateFixture(t, date(2024, 1, 15))
	f.registerMember(t, date(2024, 1, 1), false)

	decision, err := f.gate.CheckIn(context.Background(), "24567")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if decision.Admitted {
		t.Fatalf("expected denial for unpaid membership")
	}
	if decision.Reason != ReasonPendingPayment {
		t.Fatalf("expected reason %q, got %q", ReasonPendingPayment, decision.Reason)
	}
	if decision.DaysOverdue != 0 {
		t.Fatalf("expected no overdue days, got %d", decision.DaysOverdue)
	}
	if len(f.eventRepo.events) != 0 {
		t.Fatalf("expected no event for a denied check-in")
	}
}

func TestCheckInDeniesMemberWithoutMembership(t *testing.T) {
	f := newGateFixture(t, date(2024, 1, 15))

	member, err := f.members.CreateMember(context.Background(), members.CreateMemberInput{
		FirstName: "Ana",
		LastName:  "García",
		Phone:     "5551234567",
		Email:     "ana@example.com",
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	decision, err := f.gate.CheckIn(context.Background(), member.Email)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if decision.Admitted {
		t.Fatalf("expected denial without any membership")
	}
	if decision.Reason != ReasonNoMembership {
		t.Fatalf("expected reason %q, got %q", ReasonNoMembership, decision.Reason)
	}
	if len(f.eventRepo.events) != 0 {
		t.Fatalf("expected no event for a denied check-in")
	}
}

func TestCheckInDeniesMembershipNotStarted(t *testing.T) {
	f := newGateFixture(t, date(2024, 1, 15))
	f.registerMember(t, date(2024, 2, 1), true)

	decision, err := f.gate.CheckIn(context.Background(), "24567")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if decision.Admitted {
		t.Fatalf("expected denial for a plan that has not started")
	}
	if decision.Reason != ReasonNotStarted {
		t.Fatalf("expected reason %q, got %q", ReasonNotStarted, decision.Reason)
	}
}

func TestCheckInReactivatesLapsedFlag(t *testing.T) {
	f := newGateFixture(t, date(2024, 1, 15))
	member := f.registerMember(t, date(2024, 1, 1), true)

	// Force a stale inactive flag; the gate resync should repair it.
	if err := f.membersRepo.SetMemberActive(context.Background(), member.ID, false); err != nil {
		t.Fatalf("seed inactive flag: %v", err)
	}

	decision, err := f.gate.CheckIn(context.Background(), member.Email)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !decision.Admitted {
		t.Fatalf("expected admission, got denial %q", decision.Reason)
	}
	if !decision.Reactivated {
		t.Fatalf("expected the stale flag to be reported as repaired")
	}
}

func TestCheckInUnknownIdentifier(t *testing.T) {
	f := newGateFixture(t, date(2024, 1, 15))

	if _, err := f.gate.CheckIn(context.Background(), "00000"); !errors.Is(err, members.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestHistoryForMemberFilters(t *testing.T) {
	f := newGateFixture(t, date(2024, 1, 15))
	member := f.registerMember(t, date(2024, 1, 1), true)

	for i := 0; i < 3; i++ {
		if _, err := f.gate.CheckIn(context.Background(), member.Email); err != nil {
			t.Fatalf("check-in %d: %v", i, err)
		}
	}

	records, total, err := f.gate.HistoryForMember(context.Background(), member.ID, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after limit, got %d", len(records))
	}
	if records[0].MemberName != "Ana García" {
		t.Fatalf("expected joined member name, got %q", records[0].MemberName)
	}
}
