package user

import (
	"context"
	"testing"

	"ordering-be/internal/apperr"
	"ordering-be/internal/db/dbtest"
	"ordering-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter Filter, page utils.PageRequest) ([]*User, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter Filter) ([]*User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockRepository) FindWithOrderStatuses(ctx context.Context, statuses []string) ([]*User, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockRepository) FindTopCustomers(ctx context.Context, limit int) ([]*User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func newTestService() (*MockRepository, *dbtest.TxManager, Service) {
	repo := new(MockRepository)
	tx := &dbtest.TxManager{}
	return repo, tx, NewService(repo, tx)
}

func john() *User {
	return &User{
		ID:        1,
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Status:    StatusActive,
		Version:   0,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success defaults to ACTIVE", func(t *testing.T) {
		repo, tx, svc := newTestService()

		repo.On("ExistsByEmail", mock.Anything, "john@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.FirstName == "John" && u.Status == StatusActive
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*User).ID = 3
		}).Return(nil)

		u, err := svc.Create(ctx, CreateInput{FirstName: "John ", LastName: "Doe", Email: " john@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), u.ID)
		assert.Equal(t, 1, tx.Calls)
		repo.AssertExpectations(t)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		repo, _, svc := newTestService()
		repo.On("ExistsByEmail", mock.Anything, "john@example.com").Return(true, nil)

		_, err := svc.Create(ctx, CreateInput{FirstName: "John", LastName: "Doe", Email: "john@example.com"})
		assert.ErrorIs(t, err, ErrEmailExists)
		assert.Equal(t, "User with email john@example.com already exists", err.Error())
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Missing name", func(t *testing.T) {
		repo, _, svc := newTestService()

		_, err := svc.Create(ctx, CreateInput{FirstName: " ", LastName: "Doe", Email: "a@b.io"})
		assert.True(t, apperr.IsBusiness(err))
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Unchanged email skips uniqueness check", func(t *testing.T) {
		repo, _, svc := newTestService()
		repo.On("FindByID", mock.Anything, int64(1)).Return(john(), nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		u, err := svc.Update(ctx, 1, UpdateInput{
			Email:     utils.StrPtr("john@example.com"),
			FirstName: utils.StrPtr(" Johnny "),
			LastName:  utils.StrPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "Johnny", u.FirstName)
		assert.Equal(t, "Doe", u.LastName)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Changed email taken", func(t *testing.T) {
		repo, _, svc := newTestService()
		repo.On("FindByID", mock.Anything, int64(1)).Return(john(), nil)
		repo.On("ExistsByEmail", mock.Anything, "jane@example.com").Return(true, nil)

		_, err := svc.Update(ctx, 1, UpdateInput{Email: utils.StrPtr("jane@example.com")})
		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Invalid status", func(t *testing.T) {
		_, _, svc := newTestService()
		bad := Status("BANNED")

		_, err := svc.Update(ctx, 1, UpdateInput{Status: &bad})
		assert.True(t, apperr.IsBusiness(err))
	})
}

func TestService_Delete(t *testing.T) {
	repo, _, svc := newTestService()
	u := john()

	repo.On("FindByID", mock.Anything, int64(1)).Return(u, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Status == StatusDeleted
	})).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	repo.AssertExpectations(t)
}

func TestService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("GetByID not found", func(t *testing.T) {
		repo, _, svc := newTestService()
		repo.On("FindByID", mock.Anything, int64(8)).Return(nil, apperr.NotFound("User", "id", 8))

		_, err := svc.GetByID(ctx, 8)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("ListByStatus pages", func(t *testing.T) {
		repo, tx, svc := newTestService()
		status := StatusSuspended
		repo.On("List", mock.Anything, Filter{Status: &status}, utils.PageRequest{Size: utils.DefaultPageSize}).
			Return([]*User{john()}, nil)
		repo.On("Count", mock.Anything, Filter{Status: &status}).Return(int64(1), nil)

		page, err := svc.ListByStatus(ctx, StatusSuspended, utils.PageRequest{})
		require.NoError(t, err)
		assert.Len(t, page.Content, 1)
		assert.Equal(t, 1, tx.ReadOnlyCalls)
	})

	t.Run("WithActiveOrders", func(t *testing.T) {
		repo, _, svc := newTestService()
		repo.On("FindWithOrderStatuses", mock.Anything, []string{"PENDING", "CONFIRMED", "PROCESSING"}).
			Return([]*User{john()}, nil)

		users, err := svc.WithActiveOrders(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("TopCustomers defaults the limit", func(t *testing.T) {
		repo, _, svc := newTestService()
		repo.On("FindTopCustomers", mock.Anything, 10).Return([]*User{}, nil)

		_, err := svc.TopCustomers(ctx, 0)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("SearchByName", func(t *testing.T) {
		repo, _, svc := newTestService()
		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f Filter) bool {
			return f.Name != nil && *f.Name == "doe"
		})).Return([]*User{john()}, nil)

		users, err := svc.SearchByName(ctx, " doe")
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}
