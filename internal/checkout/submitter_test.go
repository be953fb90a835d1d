package checkout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/trendline-shop/storefront/internal/domain"
	"github.com/trendline-shop/storefront/internal/mailer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockCart struct {
	mu      sync.Mutex
	items   []domain.LineItem
	loadErr error
	cleared bool
}

func (m *mockCart) Load(context.Context) ([]domain.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.items, nil
}

func (m *mockCart) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = true
	return nil
}

func (m *mockCart) wasCleared() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}

type mockOrders struct {
	calls   atomic.Int32
	err     error
	started chan struct{} // closed once the first call arrives, if set
	release chan struct{} // blocks the call until closed, if set

	mu   sync.Mutex
	last domain.Order
}

func (m *mockOrders) Create(_ context.Context, order domain.Order) error {
	if m.calls.Add(1) == 1 && m.started != nil {
		close(m.started)
	}
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	m.last = order
	m.mu.Unlock()
	return m.err
}

func (m *mockOrders) lastOrder() domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

type mockMailer struct {
	err  error
	sent chan mailer.Notification
}

func (m *mockMailer) SendOrderNotification(_ context.Context, n mailer.Notification) error {
	m.sent <- n
	return m.err
}

func testItems() []domain.LineItem {
	return []domain.LineItem{
		{ProductID: "prodA", Size: "M", Quantity: 2, UnitPrice: 800},
		{ProductID: "prodB", Size: "L", Quantity: 1, UnitPrice: 2500},
	}
}

func testCustomer() Customer {
	return Customer{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "03001234567",
		Address: "12 Analytical St",
	}
}

func TestSubmit_Success(t *testing.T) {
	cartSvc := &mockCart{items: testItems()}
	ordersClient := &mockOrders{}
	mails := &mockMailer{sent: make(chan mailer.Notification, 1)}
	sub := NewSubmitter(cartSvc, ordersClient, mails, 250)

	result, err := sub.Submit(context.Background(), testCustomer())
	require.NoError(t, err)

	// subtotal = 800*2 + 2500*1; total adds the fixed delivery charge once
	assert.Equal(t, 4100.0, result.Order.SubTotal)
	assert.Equal(t, 250.0, result.Order.DeliveryCharge)
	assert.Equal(t, 4350.0, result.Order.TotalPrice)
	assert.Equal(t, "/thankyou", result.Redirect)
	require.Len(t, result.Order.Products, 2)
	assert.Equal(t, domain.OrderProduct{ProductID: "prodA", Size: "M", Quantity: 2}, result.Order.Products[0])

	assert.True(t, cartSvc.wasCleared())
	assert.Equal(t, domain.SubmissionStatusSucceeded, sub.Status())

	select {
	case n := <-mails.sent:
		assert.Equal(t, "Ada Lovelace", n.CustomerName)
		assert.Equal(t, 4350.0, n.TotalPrice)
	case <-time.After(time.Second):
		t.Fatal("notification was never sent")
	}
	require.NoError(t, sub.Shutdown(context.Background()))
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	ordersClient := &mockOrders{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sub := NewSubmitter(&mockCart{items: testItems()}, ordersClient, nil, 250)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := sub.Submit(context.Background(), testCustomer())
		assert.NoError(t, err)
	}()

	<-ordersClient.started
	_, err := sub.Submit(context.Background(), testCustomer())
	require.ErrorIs(t, err, ErrSubmissionInFlight)

	close(ordersClient.release)
	wg.Wait()

	// The guarded second attempt never reached the order API.
	assert.Equal(t, int32(1), ordersClient.calls.Load())
}

func TestSubmit_OrderFailureLeavesCartIntact(t *testing.T) {
	cartSvc := &mockCart{items: testItems()}
	ordersClient := &mockOrders{err: errors.New("upstream down")}
	mails := &mockMailer{sent: make(chan mailer.Notification, 1)}
	sub := NewSubmitter(cartSvc, ordersClient, mails, 250)

	_, err := sub.Submit(context.Background(), testCustomer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")

	assert.False(t, cartSvc.wasCleared())
	assert.Equal(t, domain.SubmissionStatusFailed, sub.Status())
	assert.Empty(t, mails.sent)

	// A manual retry is allowed once the first attempt has failed.
	ordersClient.err = nil
	result, err := sub.Submit(context.Background(), testCustomer())
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStatusSucceeded, sub.Status())
	assert.Equal(t, "/thankyou", result.Redirect)

	<-mails.sent
	require.NoError(t, sub.Shutdown(context.Background()))
}

func TestSubmit_NotificationFailureDoesNotAffectOutcome(t *testing.T) {
	cartSvc := &mockCart{items: testItems()}
	mails := &mockMailer{err: errors.New("template not found"), sent: make(chan mailer.Notification, 1)}
	sub := NewSubmitter(cartSvc, &mockOrders{}, mails, 250)

	result, err := sub.Submit(context.Background(), testCustomer())
	require.NoError(t, err)

	assert.True(t, cartSvc.wasCleared())
	assert.Equal(t, domain.SubmissionStatusSucceeded, sub.Status())
	assert.Equal(t, "/thankyou", result.Redirect)

	<-mails.sent
	require.NoError(t, sub.Shutdown(context.Background()))
}

func TestSubmit_EmptyCart(t *testing.T) {
	ordersClient := &mockOrders{}
	sub := NewSubmitter(&mockCart{}, ordersClient, nil, 250)

	_, err := sub.Submit(context.Background(), testCustomer())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, int32(0), ordersClient.calls.Load())
	assert.Equal(t, domain.SubmissionStatusFailed, sub.Status())
}

func TestSubmit_CartLoadFailure(t *testing.T) {
	sub := NewSubmitter(&mockCart{loadErr: errors.New("corrupted cart")}, &mockOrders{}, nil, 250)

	_, err := sub.Submit(context.Background(), testCustomer())
	require.Error(t, err)
	assert.Equal(t, domain.SubmissionStatusFailed, sub.Status())
}

func TestSubmit_MissingCustomerFields(t *testing.T) {
	ordersClient := &mockOrders{}
	sub := NewSubmitter(&mockCart{items: testItems()}, ordersClient, nil, 250)

	customer := testCustomer()
	customer.Address = ""
	_, err := sub.Submit(context.Background(), customer)
	require.ErrorIs(t, err, ErrMissingCustomer)
	assert.Equal(t, int32(0), ordersClient.calls.Load())
}
