// Package checkout sequences a checkout attempt: shipping retrieval, total
// computation, order submission, and the post-order cart clear.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trolley/internal/api"
	"trolley/internal/cart"
	"trolley/internal/logging"
	"trolley/internal/session"
)

// State is the orchestrator's position in the checkout flow.
type State int

const (
	StateIdle State = iota
	StateFetchingShipping
	StateReadyToConfirm
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFetchingShipping:
		return "FetchingShipping"
	case StateReadyToConfirm:
		return "ReadyToConfirm"
	case StateSubmitting:
		return "Submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrEmptyCart rejects a checkout attempt with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotReady rejects Select/Submit outside ReadyToConfirm.
	ErrNotReady = errors.New("checkout is not ready to confirm")

	// ErrSubmissionInFlight rejects a second submission while one is pending.
	// The sticky bar and the modal share the confirm action, so a double
	// trigger of the same logical button is a normal event, not a bug.
	ErrSubmissionInFlight = errors.New("order submission already in flight")
)

// Orchestrator drives one checkout attempt at a time. Failure during any
// step surfaces the error and returns to the prior stable state without
// touching the cart.
type Orchestrator struct {
	client   *api.Client
	identity *session.Store
	cart     *cart.Store

	mu       sync.Mutex
	state    State
	options  []api.ShippingOption
	selected int
}

// New wires an orchestrator over the API client, identity store and cart.
func New(client *api.Client, identity *session.Store, cartStore *cart.Store) *Orchestrator {
	return &Orchestrator{
		client:   client,
		identity: identity,
		cart:     cartStore,
	}
}

// State returns the current machine state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Begin starts a checkout: requires an identity and a non-empty cart, then
// fetches the shipping options and default-selects the first. No shipping
// request is ever issued for an empty cart. On failure the machine is back
// at Idle.
func (o *Orchestrator) Begin(ctx context.Context) ([]api.ShippingOption, error) {
	o.mu.Lock()
	if o.state != StateIdle {
		state := o.state
		o.mu.Unlock()
		return nil, fmt.Errorf("checkout already in progress (%s)", state)
	}
	if _, ok := o.identity.UserID(); !ok {
		o.mu.Unlock()
		return nil, api.ErrUnauthenticated
	}
	if o.cart.Snapshot().IsEmpty() {
		o.mu.Unlock()
		return nil, ErrEmptyCart
	}
	o.state = StateFetchingShipping
	o.mu.Unlock()
	logging.Checkout("transition Idle -> FetchingShipping")

	options, err := o.client.ShippingOptions(ctx)
	if err == nil && len(options) == 0 {
		err = &api.ValidationError{Status: 503, Message: "No shipping options are available right now"}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = StateIdle
		logging.Checkout("shipping fetch failed, back to Idle: %v", err)
		return nil, err
	}

	o.state = StateReadyToConfirm
	o.options = options
	o.selected = 0
	logging.Checkout("transition FetchingShipping -> ReadyToConfirm (%d options)", len(options))
	return options, nil
}

// Select changes the chosen shipping option by index. Allowed any number of
// times while ReadyToConfirm; each change is reflected by the next Total().
func (o *Orchestrator) Select(index int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateReadyToConfirm {
		return ErrNotReady
	}
	if index < 0 || index >= len(o.options) {
		return fmt.Errorf("shipping option index %d out of range", index)
	}
	o.selected = index
	logging.CheckoutDebug("selected shipping option %s", o.options[index].Name)
	return nil
}

// Selected returns the currently chosen shipping option.
func (o *Orchestrator) Selected() (api.ShippingOption, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateReadyToConfirm && o.state != StateSubmitting {
		return api.ShippingOption{}, false
	}
	return o.options[o.selected], true
}

// Total recomputes subtotal + selected shipping cost from the live cart
// projection. Never cached, so a selection change is reflected immediately.
func (o *Orchestrator) Total() float64 {
	proj := cart.Project(o.cart.Snapshot())
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateReadyToConfirm && o.state != StateSubmitting {
		return proj.Subtotal
	}
	return proj.Subtotal + o.options[o.selected].Cost
}

// Submit places the order. On success the cart is cleared (local state plus
// one server-side delete) and the machine returns to Idle. On failure the
// machine returns to ReadyToConfirm with the cart untouched. A submission
// already in flight rejects the duplicate trigger.
func (o *Orchestrator) Submit(ctx context.Context) (*api.Order, error) {
	o.mu.Lock()
	if o.state == StateSubmitting {
		o.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if o.state != StateReadyToConfirm {
		o.mu.Unlock()
		return nil, ErrNotReady
	}
	userID, ok := o.identity.UserID()
	if !ok {
		o.state = StateIdle
		o.mu.Unlock()
		return nil, api.ErrUnauthenticated
	}
	option := o.options[o.selected]
	o.state = StateSubmitting
	o.mu.Unlock()
	logging.Checkout("transition ReadyToConfirm -> Submitting (option=%s)", option.Name)

	order, err := o.client.PlaceOrder(ctx, userID, option.ID)

	o.mu.Lock()
	if err != nil {
		o.state = StateReadyToConfirm
		o.mu.Unlock()
		logging.Checkout("submission failed, back to ReadyToConfirm: %v", err)
		return nil, err
	}
	o.state = StateIdle
	o.options = nil
	o.selected = 0
	o.mu.Unlock()
	logging.Checkout("order %d placed, transition Submitting -> Idle", order.ID)

	o.cart.Clear(ctx)
	return order, nil
}

// Cancel abandons a checkout attempt from any non-submitting state.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSubmitting {
		return
	}
	o.state = StateIdle
	o.options = nil
	o.selected = 0
}

// Options returns the shipping options of the current attempt.
func (o *Orchestrator) Options() []api.ShippingOption {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]api.ShippingOption, len(o.options))
	copy(out, o.options)
	return out
}
