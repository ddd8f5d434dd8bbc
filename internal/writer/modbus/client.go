// internal/writer/modbus/client.go
package modbus

import (
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
)

const connectRetries = 3

// EndpointClient writes status blocks over one Modbus TCP connection.
// Writes are serialized since the unit id lives on the shared handler.
type EndpointClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Config addresses one status endpoint.
type Config struct {
	Endpoint string // host:port, optionally tcp://host:port
	Timeout  time.Duration
}

// NewEndpointClient connects, retrying with exponential backoff.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	addr := strings.TrimPrefix(cfg.Endpoint, "tcp://")
	if addr == "" {
		return nil, errors.New("status endpoint: address required")
	}

	h := modbus.NewTCPClientHandler(addr)
	h.Timeout = cfg.Timeout

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectRetries)
	if err := backoff.Retry(h.Connect, b); err != nil {
		return nil, errors.Wrapf(err, "status endpoint: connect %s", addr)
	}

	return &EndpointClient{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close drops the connection.
func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteRegisters issues one write-multiple-registers request (function 0x10).
// After a failure the connection is closed; the handler dials again on the next write.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID

	if _, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs)); err != nil {
		var me *modbus.ModbusError
		if !errors.As(err, &me) {
			_ = c.handler.Close()
		}
		return errors.Wrapf(err, "status endpoint: write %d regs at %d", len(regs), addr)
	}
	return nil
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, 2*len(regs))
	for i, r := range regs {
		out[2*i], out[2*i+1] = byte(r>>8), byte(r)
	}
	return out
}
