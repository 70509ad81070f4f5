package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/angelmondragon/artmarket-storefront/internal/api"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
)

var errServerDown = errors.New("server down")

// fakeServer is an in-memory server cart that records every call.
type fakeServer struct {
	mu            sync.Mutex
	authenticated bool
	lines         []api.ServerCartLine
	nextLine      int
	calls         []string

	// beforeGet runs at the start of GetCart, outside the lock.
	beforeGet func()

	failAdd   map[string]error
	failClear error
	failGet   error
	failAll   error
}

func newFakeServer(authenticated bool) *fakeServer {
	return &fakeServer{authenticated: authenticated, failAdd: map[string]error{}}
}

func (f *fakeServer) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeServer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeServer) Authenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authenticated
}

func (f *fakeServer) setAuthenticated(v bool) {
	f.mu.Lock()
	f.authenticated = v
	f.mu.Unlock()
}

func (f *fakeServer) GetCart(context.Context) (api.ServerCart, error) {
	f.mu.Lock()
	hook := f.beforeGet
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GET /cart")
	if f.failGet != nil {
		return api.ServerCart{}, f.failGet
	}
	if f.failAll != nil {
		return api.ServerCart{}, f.failAll
	}
	return api.ServerCart{ID: "srv", Lines: append([]api.ServerCartLine(nil), f.lines...)}, nil
}

func (f *fakeServer) AddCartItem(_ context.Context, artworkID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("POST /cart/items %s x%d", artworkID, quantity))
	if err := f.failAdd[artworkID]; err != nil {
		return err
	}
	if f.failAll != nil {
		return f.failAll
	}
	for i := range f.lines {
		if f.lines[i].Item.ID == artworkID {
			f.lines[i].Item.Quantity += quantity
			return nil
		}
	}
	f.nextLine++
	f.lines = append(f.lines, api.ServerCartLine{
		LineID: fmt.Sprintf("line-%d", f.nextLine),
		Item:   types.CartLineItem{ID: artworkID, Title: "server " + artworkID, UnitPrice: 100, Quantity: quantity},
	})
	return nil
}

func (f *fakeServer) UpdateCartItem(_ context.Context, lineID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("PUT /cart/items/%s x%d", lineID, quantity))
	if f.failAll != nil {
		return f.failAll
	}
	for i := range f.lines {
		if f.lines[i].LineID == lineID {
			f.lines[i].Item.Quantity = quantity
		}
	}
	return nil
}

func (f *fakeServer) DeleteCartItem(_ context.Context, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DELETE /cart/items/" + lineID)
	if f.failAll != nil {
		return f.failAll
	}
	for i := range f.lines {
		if f.lines[i].LineID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeServer) ClearCart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DELETE /cart")
	if f.failClear != nil {
		return f.failClear
	}
	if f.failAll != nil {
		return f.failAll
	}
	f.lines = nil
	return nil
}
