package user

import (
	"context"
	"strings"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db"
	"ordering-be/internal/logger"
	"ordering-be/internal/utils"

	"go.uber.org/zap"
)

const DefaultTopCustomers = 10

// activeOrderStatuses are the order states counted by WithActiveOrders.
var activeOrderStatuses = []string{"PENDING", "CONFIRMED", "PROCESSING"}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*User, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*User, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page utils.PageRequest) (*utils.Page[*User], error)
	ListByStatus(ctx context.Context, status Status, page utils.PageRequest) (*utils.Page[*User], error)
	SearchByName(ctx context.Context, name string) ([]*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	WithActiveOrders(ctx context.Context) ([]*User, error)
	TopCustomers(ctx context.Context, limit int) ([]*User, error)
}

type service struct {
	repo Repository
	tx   db.TxManager
}

func NewService(repo Repository, tx db.TxManager) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateUser"),
		zap.String("email", input.Email),
	)

	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, apperr.BusinessWrap(ErrInvalidUser, "First name and last name are required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, apperr.BusinessWrap(ErrInvalidUser, "Invalid user status: %s", *input.Status)
	}

	u := &User{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.TrimSpace(input.Email),
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		Status:      StatusActive,
	}
	if input.Status != nil {
		u.Status = *input.Status
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if exists {
			return errEmailExists(u.Email)
		}
		return s.repo.Create(ctx, u)
	})
	if err != nil {
		log.Warn("create user failed", zap.Error(err))
		return nil, err
	}

	log.Info("user created", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateUser"),
		zap.Int64("user_id", id),
	)

	if input.Status != nil && !input.Status.IsValid() {
		return nil, apperr.BusinessWrap(ErrInvalidUser, "Invalid user status: %s", *input.Status)
	}

	var updated *User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if input.Email != nil {
			email := strings.TrimSpace(*input.Email)
			if email != u.Email {
				exists, err := s.repo.ExistsByEmail(ctx, email)
				if err != nil {
					return err
				}
				if exists {
					return errEmailExists(email)
				}
				u.Email = email
			}
		}
		if v := utils.NilIfBlank(input.FirstName); v != nil {
			u.FirstName = *v
		}
		if v := utils.NilIfBlank(input.LastName); v != nil {
			u.LastName = *v
		}
		if input.PhoneNumber != nil {
			u.PhoneNumber = input.PhoneNumber
		}
		if input.Address != nil {
			u.Address = input.Address
		}
		if input.Status != nil {
			u.Status = *input.Status
		}

		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		log.Warn("update user failed", zap.Error(err))
		return nil, err
	}

	log.Info("user updated", zap.Int("version", updated.Version))
	return updated, nil
}

// Delete marks the user DELETED; orders keep their owner reference.
func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		u.Status = StatusDeleted
		return s.repo.Update(ctx, u)
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("delete user failed",
			zap.Int64("user_id", id),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, strings.TrimSpace(email))
}

func (s *service) List(ctx context.Context, page utils.PageRequest) (*utils.Page[*User], error) {
	return s.page(ctx, Filter{}, page)
}

func (s *service) ListByStatus(ctx context.Context, status Status, page utils.PageRequest) (*utils.Page[*User], error) {
	if !status.IsValid() {
		return nil, apperr.BusinessWrap(ErrInvalidUser, "Invalid user status: %s", status)
	}
	return s.page(ctx, Filter{Status: &status}, page)
}

func (s *service) page(ctx context.Context, filter Filter, page utils.PageRequest) (*utils.Page[*User], error) {
	page = page.Normalize()

	var (
		items []*User
		total int64
	)
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		if items, err = s.repo.List(ctx, filter, page); err != nil {
			return err
		}
		total, err = s.repo.Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	return utils.NewPage(items, total, page), nil
}

func (s *service) SearchByName(ctx context.Context, name string) ([]*User, error) {
	name = strings.TrimSpace(name)
	return s.repo.FindAll(ctx, Filter{Name: &name})
}

func (s *service) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.TrimSpace(email))
}

func (s *service) WithActiveOrders(ctx context.Context) ([]*User, error) {
	return s.repo.FindWithOrderStatuses(ctx, activeOrderStatuses)
}

func (s *service) TopCustomers(ctx context.Context, limit int) ([]*User, error) {
	if limit <= 0 {
		limit = DefaultTopCustomers
	}
	return s.repo.FindTopCustomers(ctx, limit)
}
