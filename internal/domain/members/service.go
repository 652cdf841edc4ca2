package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceWithClock fixes the service's notion of "now" so temporal
// rules can be pinned to a date in tests.
func NewServiceWithClock(repo Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// Member operations

func (s *Service) CreateMember(ctx context.Context, input CreateMemberInput) (*Member, error) {
	input = normalizeMemberInput(input)
	if err := validateMemberInput(input.FirstName, input.LastName, input.Email); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, input.Email, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	member := Member{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Email:        input.Email,
		AccessCode:   AccessCode(now, input.Phone),
		Active:       false,
		RegisteredAt: now,
	}

	if err := s.repo.CreateMember(ctx, &member); err != nil {
		return nil, err
	}

	return &member, nil
}

func (s *Service) UpdateMember(ctx context.Context, input UpdateMemberInput) (*Member, error) {
	normalized := normalizeMemberInput(CreateMemberInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Email:     input.Email,
	})
	if err := validateMemberInput(normalized.FirstName, normalized.LastName, normalized.Email); err != nil {
		return nil, err
	}

	member, err := s.repo.GetMemberByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if normalized.Email != member.Email {
		if err := s.ensureEmailFree(ctx, normalized.Email, member.ID); err != nil {
			return nil, err
		}
	}

	// The access code is derived from the phone number; a phone change
	// invalidates the old code.
	if normalized.Phone != member.Phone {
		member.AccessCode = AccessCode(s.now().UTC(), normalized.Phone)
	}

	member.FirstName = normalized.FirstName
	member.LastName = normalized.LastName
	member.Phone = normalized.Phone
	member.Email = normalized.Email
	member.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

func (s *Service) GetMember(ctx context.Context, id string) (*Member, error) {
	return s.repo.GetMemberByID(ctx, id)
}

func (s *Service) DeleteMember(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteMember(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

// FindByIdentifier resolves a check-in identifier: anything containing an
// "@" is treated as an email, the rest as an access code.
func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (*Member, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrMemberNotFound
	}
	if strings.Contains(identifier, "@") {
		return s.repo.GetMemberByEmail(ctx, strings.ToLower(identifier))
	}
	return s.repo.GetMemberByAccessCode(ctx, identifier)
}

// SyncStatus reconciles the stored active flag with the membership set as
// of today. It performs a full rescan, writes the flag only on change, and
// is safe to call on every read.
func (s *Service) SyncStatus(ctx context.Context, memberID string) (*Status, error) {
	today := s.now()

	var status *Status
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMemberByID(ctx, memberID)
		if err != nil {
			return err
		}

		memberships, err := tx.ListMemberships(ctx, memberID)
		if err != nil {
			return err
		}

		status = evaluate(member, memberships, today)

		active := status.Valid != nil
		if active != member.Active {
			if err := tx.SetMemberActive(ctx, member.ID, active); err != nil {
				return err
			}
			member.Active = active
			status.Changed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// ListOverview resyncs every member and returns list-view rows enriched
// with validity facts, newest registration first.
func (s *Service) ListOverview(ctx context.Context) ([]MemberOverview, error) {
	list, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	overviews := make([]MemberOverview, 0, len(list))
	for i := range list {
		status, err := s.SyncStatus(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, buildOverview(status, today))
	}
	return overviews, nil
}

func buildOverview(status *Status, today time.Time) MemberOverview {
	overview := MemberOverview{Member: *status.Member}

	switch {
	case status.Valid != nil:
		expires := DateOnly(status.Valid.EndDate)
		overview.MembershipType = &status.Valid.Type
		overview.ExpiresAt = &expires
		overview.DaysRemaining = status.Valid.DaysRemaining(today)
		overview.HasValid = true
	case status.LatestPaid != nil:
		expires := DateOnly(status.LatestPaid.EndDate)
		overview.MembershipType = &status.LatestPaid.Type
		overview.ExpiresAt = &expires
		overview.DaysOverdue = status.LatestPaid.DaysOverdue(today)
	}
	return overview
}

// Membership operations

func (s *Service) CreateMembership(ctx context.Context, input CreateMembershipInput) (*Membership, error) {
	membershipType, err := ParseMembershipType(strings.TrimSpace(input.Type))
	if err != nil {
		return nil, err
	}
	if input.Cost.IsNegative() {
		return nil, fmt.Errorf("cost must not be negative")
	}

	membership := Membership{
		ID:        uuid.NewString(),
		MemberID:  input.MemberID,
		Type:      membershipType,
		StartDate: DateOnly(input.StartDate),
		EndDate:   EndDate(input.StartDate, membershipType),
		Cost:      input.Cost,
		Paid:      false,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMemberByID(ctx, input.MemberID); err != nil {
			return err
		}
		if err := tx.CreateMembership(ctx, &membership); err != nil {
			return err
		}
		return s.resync(ctx, tx, input.MemberID)
	})
	if err != nil {
		return nil, err
	}

	return &membership, nil
}

func (s *Service) Memberships(ctx context.Context, memberID string) ([]Membership, error) {
	if _, err := s.repo.GetMemberByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.repo.ListMemberships(ctx, memberID)
}

func (s *Service) GetMembership(ctx context.Context, id string) (*Membership, error) {
	return s.repo.GetMembershipByID(ctx, id)
}

// Payment operations

// RecordPayment persists the payment, flips the membership to paid and
// resyncs the owning member, all in one transaction.
func (s *Service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*Payment, error) {
	method, err := ParsePaymentMethod(strings.TrimSpace(input.Method))
	if err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	payment := Payment{
		ID:           uuid.NewString(),
		MembershipID: input.MembershipID,
		Amount:       input.Amount,
		Method:       method,
		ReceiptPath:  input.ReceiptPath,
		PaidAt:       s.now().UTC(),
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		membership, err := tx.GetMembershipByID(ctx, input.MembershipID)
		if err != nil {
			return err
		}
		if err := tx.CreatePayment(ctx, &payment); err != nil {
			return err
		}
		if err := tx.SetMembershipPaid(ctx, membership.ID, true); err != nil {
			return err
		}
		return s.resync(ctx, tx, membership.MemberID)
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (s *Service) GetPayment(ctx context.Context, id string) (*Payment, error) {
	return s.repo.GetPaymentByID(ctx, id)
}

func (s *Service) Payments(ctx context.Context, membershipID string) ([]Payment, error) {
	return s.repo.ListPayments(ctx, membershipID)
}

// resync recomputes the active flag inside an already-open transaction.
func (s *Service) resync(ctx context.Context, tx Repository, memberID string) error {
	member, err := tx.GetMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	memberships, err := tx.ListMemberships(ctx, memberID)
	if err != nil {
		return err
	}

	status := evaluate(member, memberships, s.now())
	active := status.Valid != nil
	if active == member.Active {
		return nil
	}
	return tx.SetMemberActive(ctx, memberID, active)
}

// evaluate derives a Status from a membership set ordered by
// start_date desc, id desc. The first valid entry in that order wins the
// tie-break among simultaneously valid memberships.
func evaluate(member *Member, memberships []Membership, today time.Time) *Status {
	status := &Status{Member: member}

	for i := range memberships {
		m := &memberships[i]
		if status.Valid == nil && m.IsValid(today) {
			status.Valid = m
		}
		if status.Latest == nil || laterByEndDate(m, status.Latest) {
			status.Latest = m
		}
		if m.Paid && (status.LatestPaid == nil || laterByEndDate(m, status.LatestPaid)) {
			status.LatestPaid = m
		}
	}
	return status
}

func laterByEndDate(a, b *Membership) bool {
	return DateOnly(a.EndDate).After(DateOnly(b.EndDate))
}

func (s *Service) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.GetMemberByEmail(ctx, email)
	if errors.Is(err, ErrMemberNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrDuplicateEmail
	}
	return nil
}

func normalizeMemberInput(input CreateMemberInput) CreateMemberInput {
	return CreateMemberInput{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
	}
}

func validateMemberInput(firstName, lastName, email string) error {
	if firstName == "" {
		return fmt.Errorf("first name is required")
	}
	if lastName == "" {
		return fmt.Errorf("last name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	return nil
}
