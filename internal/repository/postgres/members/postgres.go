package members

import (
	"context"
	"errors"

	"gorm.io/gorm"
	membersdomain "gym-desk-go/internal/domain/members"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(membersdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// Member operations

func (r *PostgresRepository) CreateMember(ctx context.Context, member *membersdomain.Member) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return membersdomain.ErrDuplicateEmail
	}
	return err
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *membersdomain.Member) error {
	err := r.db.WithContext(ctx).Save(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return membersdomain.ErrDuplicateEmail
	}
	return err
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, id string) (*membersdomain.Member, error) {
	var member membersdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberByEmail(ctx context.Context, email string) (*membersdomain.Member, error) {
	var member membersdomain.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberByAccessCode(ctx context.Context, code string) (*membersdomain.Member, error) {
	var member membersdomain.Member
	err := r.db.WithContext(ctx).
		Where("access_code = ?", code).
		Order("registered_at desc").
		Limit(1).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context) ([]membersdomain.Member, error) {
	var list []membersdomain.Member
	if err := r.db.WithContext(ctx).Order("registered_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&membersdomain.Member{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) SetMemberActive(ctx context.Context, id string, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&membersdomain.Member{}).
		Where("id = ?", id).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membersdomain.ErrMemberNotFound
	}
	return nil
}

// Membership operations

func (r *PostgresRepository) CreateMembership(ctx context.Context, membership *membersdomain.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *PostgresRepository) GetMembershipByID(ctx context.Context, id string) (*membersdomain.Membership, error) {
	var membership membersdomain.Membership
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *PostgresRepository) ListMemberships(ctx context.Context, memberID string) ([]membersdomain.Membership, error) {
	var list []membersdomain.Membership
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("start_date desc, id desc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PostgresRepository) SetMembershipPaid(ctx context.Context, id string, paid bool) error {
	result := r.db.WithContext(ctx).
		Model(&membersdomain.Membership{}).
		Where("id = ?", id).
		Update("paid", paid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membersdomain.ErrMembershipNotFound
	}
	return nil
}

// Payment operations

func (r *PostgresRepository) CreatePayment(ctx context.Context, payment *membersdomain.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *PostgresRepository) GetPaymentByID(ctx context.Context, id string) (*membersdomain.Payment, error) {
	var payment membersdomain.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PostgresRepository) ListPayments(ctx context.Context, membershipID string) ([]membersdomain.Payment, error) {
	var list []membersdomain.Payment
	err := r.db.WithContext(ctx).
		Where("membership_id = ?", membershipID).
		Order("paid_at desc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
