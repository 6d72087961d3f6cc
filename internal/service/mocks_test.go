package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cartway/shop-backend/internal/cache"
	"github.com/cartway/shop-backend/internal/domain"
	"github.com/cartway/shop-backend/internal/repository"
)

// Shared in-memory fakes for the service tests. All of them are mutex
// guarded so tests can exercise concurrent paths.

type fakeCartRepo struct {
	mu        sync.Mutex
	carts     map[primitive.ObjectID]*domain.Cart
	upsertErr error
	clearErr  error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[primitive.ObjectID]*domain.Cart)}
}

func copyCart(cart *domain.Cart) *domain.Cart {
	copied := *cart
	copied.Items = make([]domain.CartItem, len(cart.Items))
	copy(copied.Items, cart.Items)
	return &copied
}

func (f *fakeCartRepo) GetCart(_ context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart, ok := f.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (f *fakeCartRepo) UpsertCart(_ context.Context, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.carts[cart.UserID] = copyCart(cart)
	return nil
}

func (f *fakeCartRepo) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clearErr != nil {
		return f.clearErr
	}
	cart, ok := f.carts[userID]
	if !ok {
		return repository.ErrCartNotFound
	}
	cart.Items = []domain.CartItem{}
	cart.TotalPrice = 0
	return nil
}

func (f *fakeCartRepo) ListCarts(_ context.Context) ([]domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	carts := make([]domain.Cart, 0, len(f.carts))
	for _, cart := range f.carts {
		carts = append(carts, *copyCart(cart))
	}
	return carts, nil
}

// stored returns the persisted cart without repository error translation.
func (f *fakeCartRepo) stored(userID primitive.ObjectID) *domain.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart, ok := f.carts[userID]
	if !ok {
		return nil
	}
	return copyCart(cart)
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]domain.Product
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[primitive.ObjectID]domain.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) GetProduct(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := product
	return &copied, nil
}

func (f *fakeProductRepo) GetProducts(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byID := make(map[primitive.ObjectID]domain.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			byID[id] = p
		}
	}
	return byID, nil
}

func (f *fakeProductRepo) setStock(id primitive.ObjectID, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.products[id]
	p.Stock = stock
	f.products[id] = p
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*domain.Cart
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[primitive.ObjectID]*domain.Cart)}
}

func (f *fakeCache) Get(_ context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cart, ok := f.entries[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return copyCart(cart), nil
}

func (f *fakeCache) Set(_ context.Context, userID primitive.ObjectID, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[userID] = copyCart(cart)
	return nil
}

func (f *fakeCache) Delete(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.entries, userID)
	f.deletes++
	return nil
}

func (f *fakeCache) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletes
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*domain.Order
	ids    []primitive.ObjectID
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func copyOrder(order *domain.Order) *domain.Order {
	copied := *order
	copied.Items = make([]domain.OrderItem, len(order.Items))
	copy(copied.Items, order.Items)
	return &copied
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	f.orders[order.ID] = copyOrder(order)
	f.ids = append(f.ids, order.ID)
	return nil
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (f *fakeOrderRepo) GetOrderByIntentID(_ context.Context, intentID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, order := range f.orders {
		if order.PaymentIntentID == intentID {
			return copyOrder(order), nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return copyOrder(order), nil
}

func (f *fakeOrderRepo) AdvanceStatus(_ context.Context, id primitive.ObjectID, from []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if order.Status == s {
			order.Status = to
			order.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrderRepo) ListOrders(_ context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	orders := make([]domain.Order, 0, len(f.ids))
	for i := len(f.ids) - 1; i >= 0; i-- {
		orders = append(orders, *copyOrder(f.orders[f.ids[i]]))
	}
	return orders, nil
}

func (f *fakeOrderRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetUser(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := user
	return &copied, nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks []domain.ScheduledTask
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{}
}

func (f *fakeTaskRepo) CreateTask(_ context.Context, task *domain.ScheduledTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	task.CreatedAt = time.Now().UTC()
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeTaskRepo) DueTasks(_ context.Context, now time.Time, limit int) ([]domain.ScheduledTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var due []domain.ScheduledTask
	for _, task := range f.tasks {
		if !task.Done && !task.DueAt.After(now) {
			due = append(due, task)
			if len(due) == limit {
				break
			}
		}
	}
	return due, nil
}

func (f *fakeTaskRepo) MarkDone(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Done = true
			return nil
		}
	}
	return repository.ErrTaskNotFound
}

func (f *fakeTaskRepo) all() []domain.ScheduledTask {
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks := make([]domain.ScheduledTask, len(f.tasks))
	copy(tasks, f.tasks)
	return tasks
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[primitive.ObjectID]domain.Category
}

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	f := &fakeCategoryRepo{categories: make(map[primitive.ObjectID]domain.Category)}
	for _, c := range categories {
		f.categories[c.ID] = c
	}
	return f
}

func (f *fakeCategoryRepo) CreateCategory(_ context.Context, category *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	category.CreatedAt = time.Now().UTC()
	category.UpdatedAt = category.CreatedAt
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) GetCategory(_ context.Context, id primitive.ObjectID) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	category, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	copied := category
	return &copied, nil
}

func (f *fakeCategoryRepo) ListChildren(_ context.Context, parentID primitive.ObjectID) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var children []domain.Category
	for _, c := range f.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			children = append(children, c)
		}
	}
	return children, nil
}

func (f *fakeCategoryRepo) DeleteCategories(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := f.categories[id]; ok {
			delete(f.categories, id)
			deleted++
		}
	}
	return deleted, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []primitive.ObjectID
}

func (n *recordingNotifier) OrderConfirmed(_ context.Context, order *domain.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.orders = append(n.orders, order.ID)
	return nil
}

func (n *recordingNotifier) confirmed() []primitive.ObjectID {
	n.mu.Lock()
	defer n.mu.Unlock()

	orders := make([]primitive.ObjectID, len(n.orders))
	copy(orders, n.orders)
	return orders
}
