// Package prices produces price ticks for the dashboard: providers yield one
// price per symbol and the Poller drives them on a fixed interval.
package prices

import (
	"context"
	"errors"
	"sync"
	"time"

	"portfolio-dashboard/internal/interfaces"
	"portfolio-dashboard/internal/logger"
	"portfolio-dashboard/internal/trace"
	"portfolio-dashboard/internal/types"
)

var (
	ErrAlreadyRunning = errors.New("poller already running")
	ErrUnknownSymbol  = errors.New("unknown symbol")
)

const DefaultInterval = 10 * time.Second

// ApplyFunc receives every poll's ticks, including an empty batch when all
// symbols failed, so derived values are recomputed each time.
type ApplyFunc func(ctx context.Context, ticks []types.PriceTick)

type Poller struct {
	provider interfaces.PriceProvider
	symbols  []string
	interval time.Duration
	apply    ApplyFunc
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(provider interfaces.PriceProvider, symbols []string, interval time.Duration, apply ApplyFunc) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		provider: provider,
		symbols:  append([]string(nil), symbols...),
		interval: interval,
		apply:    apply,
		now:      time.Now,
	}
}

func (p *Poller) Interval() time.Duration { return p.interval }

func (p *Poller) Symbols() []string { return append([]string(nil), p.symbols...) }

// PollOnce fetches every symbol in order. A symbol whose provider call fails
// is logged and left out of the batch.
func (p *Poller) PollOnce(ctx context.Context) []types.PriceTick {
	ctx, span := trace.StartSpan(ctx, "poller.Poll")
	defer span.End()

	ticks := make([]types.PriceTick, 0, len(p.symbols))
	for _, sym := range p.symbols {
		price, err := p.provider.Next(ctx, sym)
		if err != nil {
			logger.ErrorWithErr(ctx, "Price fetch failed, skipping symbol", err, "symbol", sym, "source", p.provider.Name())
			continue
		}
		ticks = append(ticks, types.PriceTick{
			Symbol: sym,
			Price:  price,
			Source: p.provider.Name(),
			Time:   p.now().Unix(),
		})
	}
	if p.apply != nil {
		p.apply(ctx, ticks)
	}
	return ticks
}

// Start polls every interval until Stop is called or ctx is done. The first
// poll happens one interval after Start.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done

	logger.Info(ctx, "Price poller started", "symbols", p.symbols, "interval", p.interval.String(), "source", p.provider.Name())
	go p.run(ctx, done)
	return nil
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer func() {
		// ended by ctx rather than Stop: release the slot for a new Start
		p.mu.Lock()
		if p.done == done {
			p.cancel()
			p.cancel, p.done = nil, nil
		}
		p.mu.Unlock()
		close(done)
	}()
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.PollOnce(ctx)
		}
	}
}

// Stop cancels the loop and waits for an in-flight poll to finish. It is a
// no-op when the poller is not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logger.Info(context.Background(), "Price poller stopped")
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
