package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clientbook/internal/entity"
)

func TestRecordPaymentSuccess(t *testing.T) {
	repo := new(MockClientRepository)
	notifier := new(MockNotifier)
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	total := decimal.NewFromInt(1000)

	repo.On("AppendPayment", mock.Anything, "c1", entity.Payment{
		Amount: decimal.NewFromInt(400),
		Date:   now,
		Note:   "first",
	}).Return(&entity.Client{
		ID:          "c1",
		Name:        "Asha",
		TotalAmount: &total,
		Payments:    []entity.Payment{{Amount: decimal.NewFromInt(400), Date: now}},
	}, nil)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(e entity.ClientEvent) bool {
		return e.Type == entity.EventPaymentRecorded && e.Detail == "400.00"
	})).Return(nil)

	uc := NewRecordPaymentUseCase(repo, notifier)
	uc.Now = func() time.Time { return now }

	out, err := uc.Execute(context.Background(), "c1", RecordPaymentInput{Amount: decimal.NewFromInt(400), Note: "first"})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400).Equal(out.Paid))
	assert.True(t, decimal.NewFromInt(600).Equal(out.Remaining))
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRecordPaymentUsesGivenDate(t *testing.T) {
	repo := new(MockClientRepository)
	paidOn := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	repo.On("AppendPayment", mock.Anything, "c1", mock.MatchedBy(func(p entity.Payment) bool {
		return p.Date.Equal(paidOn)
	})).Return(&entity.Client{ID: "c1", Payments: []entity.Payment{{Amount: decimal.NewFromInt(50), Date: paidOn}}}, nil)

	uc := NewRecordPaymentUseCase(repo, nil)
	out, err := uc.Execute(context.Background(), "c1", RecordPaymentInput{Amount: decimal.NewFromInt(50), Date: &paidOn})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-50).Equal(out.Remaining), "overpayment is reported as negative remaining")
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	repo := new(MockClientRepository)
	uc := NewRecordPaymentUseCase(repo, nil)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := uc.Execute(context.Background(), "c1", RecordPaymentInput{Amount: amount})
		assert.True(t, HasCode(err, CodeValidation), amount.String())
	}
	repo.AssertNotCalled(t, "AppendPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPaymentStoreErrors(t *testing.T) {
	repo := new(MockClientRepository)
	repo.On("AppendPayment", mock.Anything, "missing", mock.Anything).Return(nil, entity.ErrClientNotFound)
	repo.On("AppendPayment", mock.Anything, "c2", mock.Anything).
		Return(nil, &entity.StoreWriteError{Op: "append-payment", ID: "c2", Err: errors.New("timeout")})

	uc := NewRecordPaymentUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), "missing", RecordPaymentInput{Amount: decimal.NewFromInt(1)})
	assert.True(t, HasCode(err, CodeClientNotFound))

	_, err = uc.Execute(context.Background(), "c2", RecordPaymentInput{Amount: decimal.NewFromInt(1)})
	assert.True(t, HasCode(err, CodeStoreWrite))
}

func TestRecordPaymentSucceedsWhenStoreReadsFail(t *testing.T) {
	repo := new(MockClientRepository)
	total := decimal.NewFromInt(1000)
	repo.On("AppendPayment", mock.Anything, "c1", mock.Anything).Return(&entity.Client{
		ID:          "c1",
		TotalAmount: &total,
		Payments:    []entity.Payment{{Amount: decimal.NewFromInt(250)}},
	}, nil)
	repo.On("Get", mock.Anything, "c1").Return(nil, errors.New("timeout")).Maybe()

	uc := NewRecordPaymentUseCase(repo, nil)
	out, err := uc.Execute(context.Background(), "c1", RecordPaymentInput{Amount: decimal.NewFromInt(250)})

	require.NoError(t, err, "a stored payment must never be reported as failed")
	assert.True(t, decimal.NewFromInt(750).Equal(out.Remaining))
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
