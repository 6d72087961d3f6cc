package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockGateway is a deterministic in-memory provider for tests and local
// runs. Intents are created in requires_payment_method and can be moved
// through statuses with SetStatus.
type MockGateway struct {
	mu      sync.Mutex
	intents map[string]*Intent

	// CreateErr, when set, makes CreateIntent fail.
	CreateErr error
}

func NewMockGateway() *MockGateway {
	return &MockGateway{intents: make(map[string]*Intent)}
}

func (g *MockGateway) CreateIntent(_ context.Context, amountMinor int64, currency string) (*Intent, error) {
	if g.CreateErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, g.CreateErr)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := "pi_" + uuid.NewString()
	intent := &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.NewString(),
		Status:       IntentStatusRequiresPayment,
		Amount:       amountMinor,
		Currency:     currency,
	}
	g.intents[id] = intent

	copied := *intent
	return &copied, nil
}

func (g *MockGateway) RetrieveIntent(_ context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent %s", ErrGateway, id)
	}

	copied := *intent
	return &copied, nil
}

// SetStatus moves an existing intent to the given status.
func (g *MockGateway) SetStatus(id, status string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return false
	}
	intent.Status = status
	return true
}
