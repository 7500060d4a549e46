package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/clientbook/internal/entity"
)

// MockClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Add(ctx context.Context, c entity.Client) (string, error) {
	args := m.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (m *MockClientRepository) Get(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, id string, patch entity.ClientPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockClientRepository) SetStatus(ctx context.Context, id string, status entity.ClientStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockClientRepository) AppendPayment(ctx context.Context, id string, p entity.Payment) (*entity.Client, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event entity.ClientEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendMessage(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// MockWhatsAppService
type MockWhatsAppService struct {
	mock.Mock
}

func (m *MockWhatsAppService) SendText(ctx context.Context, phone, body string) error {
	args := m.Called(ctx, phone, body)
	return args.Error(0)
}

func eventOfType(t entity.EventType) any {
	return mock.MatchedBy(func(e entity.ClientEvent) bool { return e.Type == t })
}
