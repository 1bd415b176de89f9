// Package di provides dependency injection container
package di

import (
	"context"

	"github.com/cardazim/cardazim/pkg/api"
	"github.com/cardazim/cardazim/pkg/protocol"
	"github.com/cardazim/cardazim/pkg/storage"
)

// StoreOpener opens the card store in a data directory
type StoreOpener func(dir string) (*storage.CardStore, error)

// Dialer connects to a collector
type Dialer func(ctx context.Context, host string, port int) (*protocol.Connection, error)

// Container holds all the dependencies for the application
type Container struct {
	storeOpener   StoreOpener
	dialer        Dialer
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		storeOpener:   storage.Open,
		dialer:        protocol.Connect,
		serverFactory: api.NewServerFactory(),
	}
}

// OpenStore opens the card store in dir
func (c *Container) OpenStore(dir string) (*storage.CardStore, error) {
	return c.storeOpener(dir)
}

// Dial connects to the collector at host:port
func (c *Container) Dial(ctx context.Context, host string, port int) (*protocol.Connection, error) {
	return c.dialer(ctx, host, port)
}

// GetServerFactory returns the API server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetStoreOpener allows overriding the store opener (for testing)
func (c *Container) SetStoreOpener(opener StoreOpener) {
	c.storeOpener = opener
}

// SetDialer allows overriding the dialer (for testing)
func (c *Container) SetDialer(dialer Dialer) {
	c.dialer = dialer
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
