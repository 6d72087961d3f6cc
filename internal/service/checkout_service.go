package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cartway/shop-backend/internal/cache"
	"github.com/cartway/shop-backend/internal/domain"
	"github.com/cartway/shop-backend/internal/notify"
	"github.com/cartway/shop-backend/internal/payment"
	"github.com/cartway/shop-backend/internal/repository"
	"github.com/cartway/shop-backend/internal/stock"
)

// CheckoutService turns a cart into an immutable order: validates stock,
// decrements the ledger, opens a payment intent, snapshots the cart and
// schedules the delayed Pending->Processing transition.
type CheckoutService struct {
	users    repository.UserRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	tasks    repository.TaskRepository
	ledger   stock.Ledger
	gateway  payment.Gateway
	notifier notify.Notifier
	cache    cache.CartCache
	locks    *userLocks

	// ProcessingDelay is how long a fresh order stays Pending before the
	// scheduled transition moves it to Processing.
	ProcessingDelay time.Duration

	// Currency is the fixed intent currency.
	Currency string
}

func NewCheckoutService(
	users repository.UserRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	tasks repository.TaskRepository,
	ledger stock.Ledger,
	gateway payment.Gateway,
	notifier notify.Notifier,
	cartCache cache.CartCache,
) *CheckoutService {
	return &CheckoutService{
		users:           users,
		carts:           carts,
		products:        products,
		orders:          orders,
		tasks:           tasks,
		ledger:          ledger,
		gateway:         gateway,
		notifier:        notifier,
		cache:           cartCache,
		locks:           newUserLocks(),
		ProcessingDelay: 30 * time.Minute,
		Currency:        "usd",
	}
}

// CreateCheckout runs the whole flow and returns the payment intent's client
// secret. A per-user lock keeps a double submit from producing two orders
// out of one cart.
func (s *CheckoutService) CreateCheckout(ctx context.Context, userID primitive.ObjectID, method string) (string, error) {
	paymentMethod := domain.PaymentMethod(method)
	if !paymentMethod.Valid() {
		return "", ErrInvalidPaymentMethod
	}

	unlock := s.locks.lock(userID.Hex())
	defer unlock()

	_, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(cart.Items) == 0 {
		return "", ErrEmptyCart
	}

	// Advisory availability check across all lines before any decrement, so
	// a short last line cannot leave earlier lines already deducted.
	for _, item := range cart.Items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return "", &InsufficientStockError{ProductName: item.ProductID.Hex()}
			}
			return "", err
		}
		if product.Stock < item.Quantity {
			return "", &InsufficientStockError{
				ProductName: product.Name,
				Stock:       product.Stock,
				Requested:   item.Quantity,
			}
		}
	}

	// Per-line conditional decrements. The ledger refuses to go below zero,
	// and its verdict supersedes the advisory check above. Decrements already
	// applied when a later step fails are not compensated (known gap).
	for i, item := range cart.Items {
		if err := s.ledger.Decrement(ctx, item.ProductID, item.Quantity); err != nil {
			if i > 0 {
				log.Printf("checkout aborted after %d of %d stock decrements for user %s: %v",
					i, len(cart.Items), userID.Hex(), err)
			}
			if errors.Is(err, stock.ErrInsufficientStock) {
				return "", &InsufficientStockError{ProductName: item.ProductID.Hex()}
			}
			return "", err
		}
	}

	amountMinor := int64(math.Round(cart.TotalPrice * 100))
	intent, err := s.gateway.CreateIntent(ctx, amountMinor, s.Currency)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           snapshotItems(cart.Items),
		PaymentMethod:   paymentMethod,
		TotalPrice:      cart.TotalPrice,
		Status:          domain.OrderPending,
		PaymentIntentID: intent.ID,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return "", err
	}

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		return "", err
	}
	s.invalidateCache(userID)

	task := &domain.ScheduledTask{
		Kind:    domain.TaskAdvanceToProcessing,
		OrderID: order.ID,
		DueAt:   time.Now().UTC().Add(s.ProcessingDelay),
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return "", err
	}

	// One-shot poll of the intent; the webhook is the reliable confirmation
	// path, this only catches synchronously settled payments.
	go s.confirmIfSettled(order)

	return intent.ClientSecret, nil
}

// UpdateStatus is the admin force-update: enum-validated, then overwritten
// unconditionally with no transition graph.
func (s *CheckoutService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status string) (*domain.Order, error) {
	orderStatus := domain.OrderStatus(status)
	if !orderStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	return s.orders.UpdateStatus(ctx, orderID, orderStatus)
}

func (s *CheckoutService) GetOrder(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.resolveUser(ctx, order)
	return order, nil
}

// ListAllOrders returns every order, newest first, with user display fields
// resolved. Admin surface.
func (s *CheckoutService) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	users := make(map[primitive.ObjectID]*domain.UserInfo)
	for i := range orders {
		info, ok := users[orders[i].UserID]
		if !ok {
			if user, err := s.users.GetUser(ctx, orders[i].UserID); err == nil {
				info = user.Info()
			}
			users[orders[i].UserID] = info
		}
		orders[i].User = info
	}

	return orders, nil
}

// HandlePaymentEvent maps a gateway status callback onto a guarded order
// transition. Safe to deliver more than once.
func (s *CheckoutService) HandlePaymentEvent(ctx context.Context, intentID, intentStatus string) error {
	order, err := s.orders.GetOrderByIntentID(ctx, intentID)
	if err != nil {
		return err
	}

	switch intentStatus {
	case payment.IntentStatusSucceeded:
		advanced, err := s.orders.AdvanceStatus(ctx, order.ID,
			[]domain.OrderStatus{domain.OrderPending, domain.OrderProcessing}, domain.OrderCompleted)
		if err != nil {
			return err
		}
		if advanced {
			if err := s.notifier.OrderConfirmed(ctx, order); err != nil {
				log.Printf("order confirmation notify failed for %s: %v", order.ID.Hex(), err)
			}
		}
	case payment.IntentStatusCanceled, payment.IntentStatusFailed:
		if _, err := s.orders.AdvanceStatus(ctx, order.ID,
			[]domain.OrderStatus{domain.OrderPending, domain.OrderProcessing}, domain.OrderCancelled); err != nil {
			return err
		}
	default:
		// processing / requires_payment_method carry no transition.
	}

	return nil
}

func (s *CheckoutService) confirmIfSettled(order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	intent, err := s.gateway.RetrieveIntent(ctx, order.PaymentIntentID)
	if err != nil {
		log.Printf("post-checkout intent poll failed for order %s: %v", order.ID.Hex(), err)
		return
	}
	if intent.Status != payment.IntentStatusSucceeded {
		return
	}

	if err := s.HandlePaymentEvent(ctx, order.PaymentIntentID, intent.Status); err != nil {
		log.Printf("post-checkout confirmation failed for order %s: %v", order.ID.Hex(), err)
	}
}

func (s *CheckoutService) resolveUser(ctx context.Context, order *domain.Order) {
	user, err := s.users.GetUser(ctx, order.UserID)
	if err != nil {
		log.Printf("failed to resolve user %s for order %s: %v", order.UserID.Hex(), order.ID.Hex(), err)
		return
	}
	order.User = user.Info()
}

func (s *CheckoutService) invalidateCache(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cart cache invalidate error: %v", err)
	}
}

// snapshotItems copies cart lines into order lines. The copy is what makes
// the order immune to later cart or price changes.
func snapshotItems(items []domain.CartItem) []domain.OrderItem {
	snapshot := make([]domain.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = domain.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			TotalPrice: item.TotalPrice,
		}
	}
	return snapshot
}
