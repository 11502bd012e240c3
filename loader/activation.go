package loader

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/use-agent/offerpage/models"
)

// OfferSource loads the raw payload for an offer URL.
type OfferSource interface {
	Load(ctx context.Context, offerURL string) (*models.RawOfferPayload, error)
}

// Snapshot is a point-in-time view of an Activation.
type Snapshot struct {
	Phase   models.Phase
	Payload *models.RawOfferPayload // set only in PhaseReady
	Error   string                  // set only in PhaseError
	Code    string                  // error code, set only in PhaseError
}

// Activation runs the loading lifecycle for one offer: it starts in
// PhaseLoading and moves exactly once to PhaseReady or PhaseError when the
// single fetch settles. Readers may call Snapshot concurrently.
type Activation struct {
	source   OfferSource
	offerURL string

	once sync.Once
	done chan struct{}

	mu     sync.RWMutex
	state  Snapshot
	closed bool
}

// NewActivation creates an Activation in PhaseLoading. Nothing is fetched
// until Start.
func NewActivation(source OfferSource, offerURL string) *Activation {
	return &Activation{
		source:   source,
		offerURL: offerURL,
		done:     make(chan struct{}),
		state:    Snapshot{Phase: models.PhaseLoading},
	}
}

// OfferURL returns the offer page this activation loads.
func (a *Activation) OfferURL() string {
	return a.offerURL
}

// Start issues the fetch in the background. Only the first call has any
// effect. The fetch is not cancelled by Close.
func (a *Activation) Start(ctx context.Context) {
	a.once.Do(func() {
		slog.Info("offer activation started", "offer_url", a.offerURL)
		go a.run(ctx)
	})
}

func (a *Activation) run(ctx context.Context) {
	defer close(a.done)

	payload, err := a.source.Load(ctx, a.offerURL)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		slog.Info("offer activation closed before fetch settled, discarding result",
			"offer_url", a.offerURL,
		)
		return
	}

	if err != nil {
		a.state = Snapshot{
			Phase: models.PhaseError,
			Error: models.UserMessage(err),
			Code:  errorCode(err),
		}
		slog.Warn("offer fetch failed",
			"offer_url", a.offerURL,
			"phase", a.state.Phase,
			"error", err,
		)
		return
	}

	a.state = Snapshot{Phase: models.PhaseReady, Payload: payload}
	slog.Info("offer ready", "offer_url", a.offerURL, "phase", a.state.Phase)
}

// Snapshot returns the current lifecycle state.
func (a *Activation) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Done is closed once the fetch has settled, whether or not its result
// was applied. It never closes if Start was not called.
func (a *Activation) Done() <-chan struct{} {
	return a.done
}

// Close tears the activation down. A fetch still in flight completes but
// its result is dropped and the phase is left unchanged.
func (a *Activation) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}

func errorCode(err error) string {
	var oe *models.OfferError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return models.ErrCodeInternal
}
