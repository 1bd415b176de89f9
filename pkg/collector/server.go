// Package collector receives cards over TCP, stores them and announces
// each one on a shared console.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/cardazim/cardazim/pkg/card"
	"github.com/cardazim/cardazim/pkg/protocol"
)

// CardSink persists received card payloads alongside their decoded card.
type CardSink interface {
	PutCard(c *card.Card, payload []byte, remoteAddr string) (ksuid.KSUID, error)
}

// Acceptor yields incoming connections. *protocol.Listener implements it.
type Acceptor interface {
	Accept() (*protocol.Connection, error)
	Addr() net.Addr
	Close() error
}

// Config configures a Server. Only Listener is required.
type Config struct {
	Listener    Acceptor
	Store       CardSink      // nil skips persistence
	Out         io.Writer     // card announcements; defaults to stdout
	Logger      *logrus.Logger
	Metrics     *Metrics
	ReadTimeout time.Duration // per connection; zero waits forever
}

// Server accepts one card per connection.
type Server struct {
	config Config

	// printMu serializes writes to config.Out.
	printMu sync.Mutex
	wg      sync.WaitGroup
}

// New creates a collector server.
func New(config Config) (*Server, error) {
	if config.Listener == nil {
		return nil, errors.New("collector needs a listener")
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &Server{config: config}, nil
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed, handling each on its own goroutine. It waits for in-flight
// handlers before returning.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		s.config.Listener.Close()
	}()

	s.config.Logger.WithField("addr", s.config.Listener.Addr().String()).Info("collector listening")

	var retryDelay time.Duration
	for {
		conn, err := s.config.Listener.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) && isTemporary(err) {
				retryDelay = nextAcceptDelay(retryDelay)
				s.config.Logger.WithError(err).WithField("retry_in", retryDelay).Warn("accept failed, retrying")
				select {
				case <-time.After(retryDelay):
				case <-ctx.Done():
				}
				continue
			}

			s.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.config.Logger.Info("collector stopped")
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		retryDelay = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// nextAcceptDelay doubles the wait between failed accepts, the way
// net/http backs off.
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	if next := prev * 2; next < maxAcceptDelay {
		return next
	}
	return maxAcceptDelay
}

// isTemporary reports errors such as EMFILE that a later Accept may not
// hit again.
func isTemporary(err error) bool {
	var temporary interface{ Temporary() bool }
	return errors.As(err, &temporary) && temporary.Temporary()
}

func (s *Server) handle(conn *protocol.Connection) {
	defer conn.Close()
	s.config.Metrics.connectionOpened()
	defer s.config.Metrics.connectionClosed()

	remote := conn.RemoteAddr().String()
	log := s.config.Logger.WithField("remote", remote)

	if s.config.ReadTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(s.config.ReadTimeout)); err != nil {
			log.WithError(err).Warn("failed to set connection deadline")
		}
	}

	payload, err := conn.ReceiveMessage()
	if errors.Is(err, io.EOF) {
		log.Debug("connection closed without a card")
		return
	}
	if err != nil {
		log.WithError(err).Warn("failed to receive card")
		s.config.Metrics.recordRejected(reasonReceive)
		return
	}

	c, err := card.Deserialize(payload)
	if err != nil {
		log.WithError(err).WithField("bytes", len(payload)).Warn("dropping malformed card")
		s.config.Metrics.recordRejected(reasonMalformed)
		return
	}

	log = log.WithFields(logrus.Fields{
		"card":  c.Name,
		"bytes": len(payload),
	})

	if s.config.Store != nil {
		id, err := s.config.Store.PutCard(c, payload, remote)
		if err != nil {
			log.WithError(err).Error("failed to store card")
			s.config.Metrics.recordRejected(reasonStore)
			return
		}
		log = log.WithField("id", id.String())
	}

	s.config.Metrics.recordReceived(len(payload))
	log.Info("card received")

	s.printMu.Lock()
	defer s.printMu.Unlock()
	fmt.Fprintf(s.config.Out, "Received card: %s\n", c)
}
