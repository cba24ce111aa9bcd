package transport

import (
	"context"
	"time"

	"ordering-be/internal/order"
	"ordering-be/internal/product"
	"ordering-be/internal/user"
	"ordering-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Order ---

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, input order.CreateInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, page utils.PageRequest) (*utils.Page[*order.Order], error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.Page[*order.Order]), args.Error(1)
}

func (m *MockOrderService) ListByUser(ctx context.Context, userID int64, page utils.PageRequest) (*utils.Page[*order.Order], error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.Page[*order.Order]), args.Error(1)
}

func (m *MockOrderService) ListByStatus(ctx context.Context, status order.Status, page utils.PageRequest) (*utils.Page[*order.Order], error) {
	args := m.Called(ctx, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.Page[*order.Order]), args.Error(1)
}

func (m *MockOrderService) ListByDateRange(ctx context.Context, from, to time.Time, status *order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, from, to, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderService) WithMinItems(ctx context.Context, minItems int) ([]*order.Order, error) {
	args := m.Called(ctx, minItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) CreateItems(ctx context.Context, orderID int64, items []*order.Item) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *MockItemService) ListByOrder(ctx context.Context, orderID int64) ([]*order.Item, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Item), args.Error(1)
}

func (m *MockItemService) ListByProduct(ctx context.Context, productID int64) ([]*order.Item, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Item), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, itemID int64, quantity int) (*order.Item, error) {
	args := m.Called(ctx, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Item), args.Error(1)
}

func (m *MockItemService) DeleteItem(ctx context.Context, itemID int64) error {
	return m.Called(ctx, itemID).Error(0)
}

// --- Product ---

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) product(args mock.Arguments) (*product.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) products(args mock.Arguments) ([]*product.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) page(args mock.Arguments) (*utils.Page[*product.Product], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.Page[*product.Product]), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.Input) (*product.Product, error) {
	return m.product(m.Called(ctx, input))
}

func (m *MockProductService) Update(ctx context.Context, id int64, input product.Input) (*product.Product, error) {
	return m.product(m.Called(ctx, id, input))
}

func (m *MockProductService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductService) List(ctx context.Context, page utils.PageRequest) (*utils.Page[*product.Product], error) {
	return m.page(m.Called(ctx, page))
}

func (m *MockProductService) ListByStatus(ctx context.Context, status product.Status, page utils.PageRequest) (*utils.Page[*product.Product], error) {
	return m.page(m.Called(ctx, status, page))
}

func (m *MockProductService) ListByCategory(ctx context.Context, category string, page utils.PageRequest) (*utils.Page[*product.Product], error) {
	return m.page(m.Called(ctx, category, page))
}

func (m *MockProductService) SearchByName(ctx context.Context, name string) ([]*product.Product, error) {
	return m.products(m.Called(ctx, name))
}

func (m *MockProductService) ListByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]*product.Product, error) {
	return m.products(m.Called(ctx, minPrice, maxPrice))
}

func (m *MockProductService) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductService) UpdateStock(ctx context.Context, id int64, quantity int) (*product.Product, error) {
	return m.product(m.Called(ctx, id, quantity))
}

func (m *MockProductService) WriteStock(ctx context.Context, p *product.Product, quantity int) error {
	return m.Called(ctx, p, quantity).Error(0)
}

func (m *MockProductService) IsInStock(ctx context.Context, id int64, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductService) CheckStock(ctx context.Context, id int64, quantity int) (*product.StockCheck, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.StockCheck), args.Error(1)
}

// --- User ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*user.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) users(args mock.Arguments) ([]*user.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserService) page(args mock.Arguments) (*utils.Page[*user.User], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.Page[*user.User]), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, input user.CreateInput) (*user.User, error) {
	return m.user(m.Called(ctx, input))
}

func (m *MockUserService) Update(ctx context.Context, id int64, input user.UpdateInput) (*user.User, error) {
	return m.user(m.Called(ctx, id, input))
}

func (m *MockUserService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserService) List(ctx context.Context, page utils.PageRequest) (*utils.Page[*user.User], error) {
	return m.page(m.Called(ctx, page))
}

func (m *MockUserService) ListByStatus(ctx context.Context, status user.Status, page utils.PageRequest) (*utils.Page[*user.User], error) {
	return m.page(m.Called(ctx, status, page))
}

func (m *MockUserService) SearchByName(ctx context.Context, name string) ([]*user.User, error) {
	return m.users(m.Called(ctx, name))
}

func (m *MockUserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) WithActiveOrders(ctx context.Context) ([]*user.User, error) {
	return m.users(m.Called(ctx))
}

func (m *MockUserService) TopCustomers(ctx context.Context, limit int) ([]*user.User, error) {
	return m.users(m.Called(ctx, limit))
}
