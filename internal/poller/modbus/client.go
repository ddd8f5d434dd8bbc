// internal/poller/modbus/client.go
package modbus

import (
	"context"
	"encoding/binary"
	"io"
	"log"
	"math"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/motor-telemetry/internal/register"
	"github.com/tamzrod/motor-telemetry/internal/response"
)

// Client implements poller.Executor over Modbus TCP or RTU.
// Each queried register is one holding-register read of Type.Words() words.
// It serializes requests because it mutates SlaveId per query.
type Client struct {
	mu       sync.Mutex
	reader   registerReader
	setSlave func(uint8)
	closer   io.Closer
	logw     io.Closer
	log      *logrus.Entry
}

// Config is minimal transport config.
type Config struct {
	Endpoint string // tcp://host:port or rtu:///dev/ttyX
	Timeout  time.Duration

	// RTU only
	BaudRate int
	DataBits int
	Parity   string
	StopBits int

	// ConnectRetries is the number of extra connect attempts, with
	// exponential backoff. 0 means a single attempt.
	ConnectRetries uint64
}

type registerReader interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
}

type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// New creates a connected client.
func New(cfg Config, entry *logrus.Entry) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "modbus client: endpoint")
	}

	var (
		h        handler
		setSlave func(uint8)
		logger   *log.Logger
		logw     io.Closer
	)

	if entry != nil && entry.Logger.IsLevelEnabled(logrus.TraceLevel) {
		w := entry.WriterLevel(logrus.TraceLevel)
		logger = log.New(w, "modbus: ", 0)
		logw = w
	}

	switch u.Scheme {
	case "tcp":
		th := modbus.NewTCPClientHandler(u.Host)
		th.Timeout = cfg.Timeout
		th.Logger = logger
		h = th
		setSlave = func(id uint8) { th.SlaveId = id }
	case "rtu":
		rh := modbus.NewRTUClientHandler(u.Path)
		rh.BaudRate = cfg.BaudRate
		rh.DataBits = cfg.DataBits
		rh.Parity = cfg.Parity
		rh.StopBits = cfg.StopBits
		rh.Timeout = cfg.Timeout
		rh.Logger = logger
		h = rh
		setSlave = func(id uint8) { rh.SlaveId = id }
	default:
		return nil, errors.Errorf("modbus client: unsupported scheme %q", u.Scheme)
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.ConnectRetries)
	if err := backoff.Retry(h.Connect, b); err != nil {
		if logw != nil {
			_ = logw.Close()
		}
		return nil, errors.Wrapf(err, "modbus client: connect %s", cfg.Endpoint)
	}

	c := newClient(modbus.NewClient(h), setSlave, entry)
	c.closer = h
	c.logw = logw
	return c, nil
}

func newClient(r registerReader, setSlave func(uint8), entry *logrus.Entry) *Client {
	if entry == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		entry = logrus.NewEntry(l)
	}
	return &Client{
		reader:   r,
		setSlave: setSlave,
		log:      entry,
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.closer != nil {
		err = c.closer.Close()
		c.closer = nil
	}
	if c.logw != nil {
		_ = c.logw.Close()
		c.logw = nil
	}
	return err
}

// ---- poller.Executor ----

// Query reads every register of q from target.
// A Modbus exception for one register leaves it out of the response;
// any other error aborts the whole query.
func (c *Client) Query(ctx context.Context, target uint8, q register.Query) (response.Raw, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.setSlave != nil {
		c.setSlave(target)
	}

	raw := make(response.Raw, q.Len())
	for _, r := range q.Requests() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		words := r.Type.Words()
		if words == 0 {
			return nil, errors.Errorf("modbus: %s: invalid wire type", r.Address)
		}

		b, err := c.reader.ReadHoldingRegisters(uint16(r.Address), words)
		if err != nil {
			var me *modbus.ModbusError
			if errors.As(err, &me) {
				c.log.WithFields(logrus.Fields{
					"register":  r.Address.String(),
					"exception": me.ExceptionCode,
				}).Debug("register not answered")
				continue
			}
			return nil, errors.Wrapf(err, "modbus: read %s", r.Address)
		}

		v, err := decodeValue(r.Type, b)
		if err != nil {
			return nil, errors.Wrapf(err, "modbus: decode %s", r.Address)
		}
		raw[r.Address] = v
	}

	return raw, nil
}

// ---- helpers (pure decoding) ----

// decodeValue unpacks big-endian words, high word first.
func decodeValue(t register.WireType, b []byte) (response.Value, error) {
	want := 2 * int(t.Words())
	if len(b) != want {
		return response.Value{}, errors.Errorf("payload is %d bytes, want %d", len(b), want)
	}

	switch t {
	case register.Int8:
		return response.IntValue(t, int64(int8(b[1]))), nil
	case register.Int16:
		return response.IntValue(t, int64(int16(binary.BigEndian.Uint16(b)))), nil
	case register.Int32:
		return response.IntValue(t, int64(int32(binary.BigEndian.Uint32(b)))), nil
	case register.Float32:
		return response.FloatValue(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	default:
		return response.Value{}, errors.Errorf("unsupported wire type %s", t)
	}
}
