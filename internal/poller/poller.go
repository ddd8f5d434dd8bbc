// internal/poller/poller.go
package poller

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/motor-telemetry/internal/health"
	"github.com/tamzrod/motor-telemetry/internal/register"
	"github.com/tamzrod/motor-telemetry/internal/response"
	"github.com/tamzrod/motor-telemetry/internal/telemetry"
)

// Executor runs one query against one target device.
// The response may be a strict subset of the query.
type Executor interface {
	Query(ctx context.Context, target uint8, q register.Query) (response.Raw, error)
}

// Factory makes a fresh executor. ONE attempt per call.
type Factory func() (Executor, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Target   uint8
	Interval time.Duration

	// Selected channel names; empty means every binding.
	Selected []string
}

// Poller runs query -> decode -> evaluate, one cycle at a time.
type Poller struct {
	cfg    Config
	query  register.Query
	layout *telemetry.Layout
	eval   *health.Evaluator
	log    *logrus.Entry

	client  Executor
	factory Factory
}

// New creates a poller with immutable config. The query is resolved
// once here, so a conflicting register map fails before any I/O.
// eval may be nil when only decoding is wanted.
func New(cfg Config, reg *register.Registry, layout *telemetry.Layout, eval *health.Evaluator, client Executor, factory Factory, log *logrus.Entry) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if reg == nil || layout == nil {
		return nil, errors.New("poller: registry and layout required")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}

	q, err := layout.Query(reg, cfg.Selected...)
	if err != nil {
		return nil, errors.Wrap(err, "poller: build query")
	}
	if q.Len() == 0 {
		return nil, errors.New("poller: empty query")
	}

	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}

	return &Poller{
		cfg:     cfg,
		query:   q,
		layout:  layout,
		eval:    eval,
		log:     log,
		client:  client,
		factory: factory,
	}, nil
}

// Query returns the query sent every cycle.
func (p *Poller) Query() register.Query {
	return p.query
}

// Layout returns the channel layout readings are decoded with.
func (p *Poller) Layout() *telemetry.Layout {
	return p.layout
}

// PollOnce performs exactly one poll cycle.
// A failed round-trip drops the client; the factory is used on a later cycle.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{
		Target: p.cfg.Target,
		At:     time.Now(),
		Query:  p.query,
	}

	if p.client == nil {
		if p.factory == nil {
			res.Err = errors.New("poller: no client")
			return res
		}
		c, err := p.factory()
		if err != nil {
			res.Err = errors.Wrap(err, "poller: connect")
			return res
		}
		p.client = c
	}

	raw, err := p.client.Query(ctx, p.cfg.Target, p.query)
	if err != nil {
		p.dropClient()
		res.Err = errors.Wrapf(err, "poller: query target %d", p.cfg.Target)
		return res
	}

	res.Reading = p.layout.Decode(p.query, raw)

	if len(res.Reading.Missing) > 0 {
		p.log.WithField("missing", res.Reading.Missing).Debug("device did not answer every register")
	}
	if q := res.Reading.Quaternion; q != nil && !q.Valid {
		p.log.WithField("sum_squares", q.SumSquares).Warn("invalid quaternion (sum of squares > 1)")
	}

	if p.eval != nil {
		res.Verdict = p.eval.Evaluate(res.Reading.Values)
	}

	return res
}

// Close releases the current client if it holds resources.
func (p *Poller) Close() error {
	if c, ok := p.client.(io.Closer); ok {
		p.client = nil
		return c.Close()
	}
	p.client = nil
	return nil
}

func (p *Poller) dropClient() {
	if p.factory == nil {
		return
	}
	if err := p.Close(); err != nil {
		p.log.WithError(err).Debug("close after failed query")
	}
}
