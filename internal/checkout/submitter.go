// Package checkout drives a single order submission attempt: validate,
// compute totals, call the order API, fire the best-effort admin
// notification and clear the cart on confirmed success.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/trendline-shop/storefront/internal/cart"
	"github.com/trendline-shop/storefront/internal/domain"
	"github.com/trendline-shop/storefront/internal/mailer"
)

var (
	ErrSubmissionInFlight = errors.New("an order submission is already in flight")
	ErrEmptyCart          = errors.New("cart is empty, nothing to order")
	ErrMissingCustomer    = errors.New("customer name, email, phone and address are required")
)

type CartService interface {
	Load(ctx context.Context) ([]domain.LineItem, error)
	Clear(ctx context.Context) error
}

type OrderCreator interface {
	Create(ctx context.Context, order domain.Order) error
}

// Customer is the shipping/contact form data of one submission.
type Customer struct {
	Name    string `json:"customer_name"`
	Email   string `json:"customer_email"`
	Phone   string `json:"customer_phone"`
	Address string `json:"customer_address"`
}

// Result is the outcome of a successful submission.
type Result struct {
	Order    domain.Order
	Redirect string
}

type Submitter struct {
	cart           CartService
	orders         OrderCreator
	mailer         mailer.Mailer // nil disables notifications
	deliveryCharge float64
	confirmPath    string
	notifyTimeout  time.Duration

	inFlight atomic.Bool
	notifyWG sync.WaitGroup

	mu     sync.Mutex
	status domain.SubmissionStatus
}

func NewSubmitter(cartSvc CartService, orders OrderCreator, m mailer.Mailer, deliveryCharge float64) *Submitter {
	return &Submitter{
		cart:           cartSvc,
		orders:         orders,
		mailer:         m,
		deliveryCharge: deliveryCharge,
		confirmPath:    "/thankyou",
		notifyTimeout:  15 * time.Second,
		status:         domain.SubmissionStatusIdle,
	}
}

// Status returns the state of the most recent submission attempt.
func (s *Submitter) Status() domain.SubmissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Submitter) setStatus(next domain.SubmissionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.CanTransitionTo(next) {
		log.Printf("illegal submission transition %s -> %s", s.status, next)
		return
	}
	s.status = next
}

// Submit runs one order submission attempt. A second call while one is in
// flight is rejected before any order call is made. On order-API failure
// the cart is left untouched; notification failures never affect the
// outcome or block clearing the cart.
func (s *Submitter) Submit(ctx context.Context, customer Customer) (*Result, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	// A terminal state from the previous attempt resets on the next one.
	if s.Status().IsTerminal() {
		s.setStatus(domain.SubmissionStatusIdle)
	}
	s.setStatus(domain.SubmissionStatusSubmitting)

	if customer.Name == "" || customer.Email == "" || customer.Phone == "" || customer.Address == "" {
		s.setStatus(domain.SubmissionStatusFailed)
		return nil, ErrMissingCustomer
	}

	items, err := s.cart.Load(ctx)
	if err != nil {
		s.setStatus(domain.SubmissionStatusFailed)
		return nil, fmt.Errorf("submit order: %w", err)
	}
	if len(items) == 0 {
		s.setStatus(domain.SubmissionStatusFailed)
		return nil, ErrEmptyCart
	}

	subTotal := cart.Subtotal(items)
	order := domain.Order{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		SubTotal:        subTotal,
		DeliveryCharge:  s.deliveryCharge,
		TotalPrice:      subTotal + s.deliveryCharge,
		Products:        orderProducts(items),
	}

	submissionID := uuid.NewString()
	log.Printf("submission %s: placing order for %d items, total %.0f", submissionID, len(items), order.TotalPrice)

	if err := s.orders.Create(ctx, order); err != nil {
		s.setStatus(domain.SubmissionStatusFailed)
		return nil, fmt.Errorf("submit order: %w", err)
	}

	// Best-effort admin notification, detached from the success path.
	s.notify(submissionID, order)

	if err := s.cart.Clear(ctx); err != nil {
		// The order is already placed; a stale local cart is the lesser evil.
		log.Printf("submission %s: clear cart after success: %v", submissionID, err)
	}

	s.setStatus(domain.SubmissionStatusSucceeded)
	log.Printf("submission %s: order placed", submissionID)

	return &Result{Order: order, Redirect: s.confirmPath}, nil
}

func (s *Submitter) notify(submissionID string, order domain.Order) {
	if s.mailer == nil {
		return
	}

	n := mailer.Notification{
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		SubTotal:        order.SubTotal,
		DeliveryCharge:  order.DeliveryCharge,
		TotalPrice:      order.TotalPrice,
		Products:        order.Products,
	}

	s.notifyWG.Add(1)
	go func() {
		defer s.notifyWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		if err := s.mailer.SendOrderNotification(ctx, n); err != nil {
			log.Printf("submission %s: admin notification failed: %v", submissionID, err)
			return
		}
		log.Printf("submission %s: admin notification sent", submissionID)
	}()
}

// Shutdown waits for detached notifications still in flight.
func (s *Submitter) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.notifyWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func orderProducts(items []domain.LineItem) []domain.OrderProduct {
	products := make([]domain.OrderProduct, 0, len(items))
	for _, item := range items {
		products = append(products, domain.OrderProduct{
			ProductID: item.ProductID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}
	return products
}
