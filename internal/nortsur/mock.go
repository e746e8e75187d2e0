package nortsur

import (
	"context"

	"github.com/nortsur/orderbot/internal/models"
)

// MockBackend implements Backend for tests. Calls are recorded in order and
// answers come from the configurable fields.
type MockBackend struct {
	OrderResult OrderResult
	OrderErr    error
	Client      *models.ClientInfo
	ClientErr   error
	Products    []models.Product
	ProductsErr error
	Summary     string
	SummaryErr  error
	StateResult StateResult
	StateErr    error

	CreatedOrders []CreatedOrder
	Lookups       []string
	Searches      []string
	SummaryIDs    []int
	StateChanges  []StateChange
}

// CreatedOrder records one CreateOrder call.
type CreatedOrder struct {
	Sender string
	Note   string
	Items  []models.OrderItem
}

// StateChange records one ChangeOrderState call.
type StateChange struct {
	OrderID int
	Verb    models.AdminVerb
	Reason  string
}

// NewMockBackend creates a mock with a successful default order result.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		OrderResult: OrderResult{OK: true, Message: "Pedido registrado"},
		StateResult: StateResult{OK: true},
	}
}

func (m *MockBackend) CreateOrder(ctx context.Context, sender, note string, items []models.OrderItem) (OrderResult, error) {
	m.CreatedOrders = append(m.CreatedOrders, CreatedOrder{Sender: sender, Note: note, Items: items})
	return m.OrderResult, m.OrderErr
}

func (m *MockBackend) FindClientByPhone(ctx context.Context, phone string) (*models.ClientInfo, error) {
	m.Lookups = append(m.Lookups, phone)
	return m.Client, m.ClientErr
}

func (m *MockBackend) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	m.Searches = append(m.Searches, query)
	return m.Products, m.ProductsErr
}

func (m *MockBackend) GetOrderSummary(ctx context.Context, orderID int) (string, error) {
	m.SummaryIDs = append(m.SummaryIDs, orderID)
	return m.Summary, m.SummaryErr
}

func (m *MockBackend) ChangeOrderState(ctx context.Context, orderID int, verb models.AdminVerb, reason string) (StateResult, error) {
	m.StateChanges = append(m.StateChanges, StateChange{OrderID: orderID, Verb: verb, Reason: reason})
	return m.StateResult, m.StateErr
}
