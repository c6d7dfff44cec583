package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/nats-io/nats.go"
)

// NATSConfig configures the NATS connection
type NATSConfig struct {
	URL           string
	ClientName    string
	MaxReconnects int
	ReconnectWait time.Duration
}

// NATSBroker fans events out across server instances through core NATS
// subjects. Core NATS is at-most-once; the Hub drops redeliveries by event id.
type NATSBroker struct {
	conn *nats.Conn
}

// NewNATSBroker connects to NATS and logs connection state changes
func NewNATSBroker(cfg NATSConfig, logger echo.Logger) (*NATSBroker, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warnj(log.JSON{"event": "nats_disconnected", "error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infoj(log.JSON{"event": "nats_reconnected", "url": nc.ConnectedUrl()})
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Infoj(log.JSON{"event": "nats_closed"})
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Infoj(log.JSON{"event": "nats_connected", "url": nc.ConnectedUrl()})
	return &NATSBroker{conn: nc}, nil
}

func (b *NATSBroker) Publish(_ context.Context, subject string, data []byte) error {
	if err := b.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

func (b *NATSBroker) Subscribe(subject string, handler func([]byte)) (func() error, error) {
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return sub.Unsubscribe, nil
}

func (b *NATSBroker) Close() error {
	if b.conn != nil {
		return b.conn.Drain()
	}
	return nil
}
