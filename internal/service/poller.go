package service

import (
	"context"
	"sync"
	"time"

	"github.com/contentclicks/dashboard/internal/domain"
	"github.com/contentclicks/dashboard/internal/logger"
	"github.com/google/uuid"
)

// StatusAPI is the slice of the backend client the poller depends on.
type StatusAPI interface {
	StartCollection(ctx context.Context, customerID string, req domain.CollectionRequest) error
	CollectionStatus(ctx context.Context, customerID string) (*domain.CollectionStatus, error)
}

// Refresher re-synchronizes the rendered view for a customer.
type Refresher interface {
	Refresh(ctx context.Context, customerID string) error
}

// Outcome is the terminal result of a polling session.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeErrored   Outcome = "errored"
	OutcomeTimedOut  Outcome = "timed_out"
)

// Notifier receives progress and terminal-state updates from polling sessions.
type Notifier interface {
	OnProgress(customerID, message string)
	OnOutcome(customerID string, outcome Outcome, message string)
}

// PollerConfig holds the polling loop parameters. The 2s interval and
// 60-attempt cap match the backend's timing contract.
type PollerConfig struct {
	Interval    time.Duration
	MaxAttempts int
	SettleDelay time.Duration
	Clock       Clock // nil uses the wall clock
}

// Poller runs one status-polling session per customer against the collector
// backend. Each session has its own completion tracker and attempt counter;
// starting a new session for a customer cancels the one already running, so
// two loops can never race on the same customer's view.
type Poller struct {
	backend   StatusAPI
	refresher Refresher
	notifier  Notifier
	logger    *logger.Logger
	clock     Clock

	interval    time.Duration
	maxAttempts int
	settleDelay time.Duration

	mu       sync.Mutex
	sessions map[string]*pollSession
}

// pollSession is the per-(customer, job) polling state.
type pollSession struct {
	id         string
	customerID string
	cancel     context.CancelFunc
	done       chan struct{}

	mu       sync.Mutex
	tracker  *CompletionTracker
	attempts int
}

// SessionInfo is a point-in-time snapshot of a running session.
type SessionInfo struct {
	ID             string   `json:"id"`
	CustomerID     string   `json:"customer_id"`
	Attempts       int      `json:"attempts"`
	TrackedSources []string `json:"tracked_sources"`
}

// NewPoller creates a new poller.
func NewPoller(backend StatusAPI, refresher Refresher, notifier Notifier, log *logger.Logger, cfg *PollerConfig) *Poller {
	if cfg == nil {
		cfg = &PollerConfig{}
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	settleDelay := cfg.SettleDelay
	if settleDelay <= 0 {
		settleDelay = time.Second
	}
	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Poller{
		backend:     backend,
		refresher:   refresher,
		notifier:    notifier,
		logger:      log,
		clock:       clock,
		interval:    interval,
		maxAttempts: maxAttempts,
		settleDelay: settleDelay,
		sessions:    make(map[string]*pollSession),
	}
}

// Start submits a collection job and, on successful submission, begins a
// polling session for the customer. A session already running for the same
// customer is canceled and replaced. Returns the new session ID.
func (p *Poller) Start(ctx context.Context, customerID string, req domain.CollectionRequest) (string, error) {
	if err := p.backend.StartCollection(ctx, customerID, req); err != nil {
		return "", err
	}
	return p.startSession(customerID).id, nil
}

// startSession registers a session and launches its loop. The loop runs on a
// background context so it outlives the triggering HTTP request.
func (p *Poller) startSession(customerID string) *pollSession {
	sess := &pollSession{
		id:         uuid.New().String(),
		customerID: customerID,
		tracker:    NewCompletionTracker(),
		done:       make(chan struct{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	p.mu.Lock()
	if prev := p.sessions[customerID]; prev != nil {
		prev.cancel()
	}
	p.sessions[customerID] = sess
	p.mu.Unlock()

	go p.run(ctx, sess)
	return sess
}

// Cancel stops the session running for a customer, if any.
func (p *Poller) Cancel(customerID string) bool {
	p.mu.Lock()
	sess := p.sessions[customerID]
	p.mu.Unlock()
	if sess == nil {
		return false
	}
	sess.cancel()
	return true
}

// Session returns a snapshot of the running session for a customer.
func (p *Poller) Session(customerID string) (*SessionInfo, bool) {
	p.mu.Lock()
	sess := p.sessions[customerID]
	p.mu.Unlock()
	if sess == nil {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &SessionInfo{
		ID:             sess.id,
		CustomerID:     sess.customerID,
		Attempts:       sess.attempts,
		TrackedSources: sess.tracker.Seen(),
	}, true
}

// run drives one session to a terminal state. Status queries are strictly
// sequential: the next tick is scheduled only after the previous query
// resolves.
func (p *Poller) run(ctx context.Context, sess *pollSession) {
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldCustomerID: sess.customerID,
		logger.FieldSessionID:  sess.id,
		logger.FieldComponent:  "poller",
	})
	defer p.finish(sess)

	logger.CtxInfo(ctx, "Polling session started")

	for {
		select {
		case <-ctx.Done():
			logger.CtxInfo(ctx, "Polling session canceled")
			return
		case <-p.clock.After(p.interval):
		}

		status, err := p.backend.CollectionStatus(ctx, sess.customerID)
		if err != nil {
			// Transient transport/parse failures are tolerated until the
			// attempt budget runs out.
			logger.CtxWarn(ctx, "Status query failed, will retry: %v", err)
			if p.consumeAttempt(ctx, sess) {
				return
			}
			continue
		}

		if status.Message != "" {
			p.notifier.OnProgress(sess.customerID, status.Message)
		}

		newCompletions := p.observeSources(ctx, sess, status)
		if newCompletions > 0 {
			logger.With(logger.Fields{logger.FieldCount: newCompletions}).
				Info(ctx, "New source completions, refreshing view")
			// Fire and forget: the refresh must not delay the next tick.
			go p.refresh(ctx, sess.customerID)
		}

		switch {
		case status.Status == domain.CollectionCompleted || status.Completed:
			logger.CtxInfo(ctx, "Collection completed")
			// Let the backend settle before the final full refresh.
			select {
			case <-ctx.Done():
				return
			case <-p.clock.After(p.settleDelay):
			}
			p.refresh(ctx, sess.customerID)
			p.notifier.OnOutcome(sess.customerID, OutcomeCompleted, completionMessage(status))
			return

		case status.Status == domain.CollectionError:
			msg := status.Error
			if msg == "" {
				msg = "Data collection failed"
			}
			logger.CtxError(ctx, "Collection failed: %s", msg)
			p.notifier.OnOutcome(sess.customerID, OutcomeErrored, msg)
			return
		}

		if p.consumeAttempt(ctx, sess) {
			return
		}
	}
}

// observeSources diffs the reported source states against the session tracker
// and returns the number of sources newly seen as completed. Newly failed
// sources are tracked too, so the loop stops waiting on them, but they are
// not counted as completions.
func (p *Poller) observeSources(ctx context.Context, sess *pollSession, status *domain.CollectionStatus) int {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	newCompletions := 0
	for name, src := range status.Sources {
		switch src.Status {
		case domain.SourceCompleted:
			if sess.tracker.MarkSeen(name) {
				newCompletions++
			}
		case domain.SourceFailed:
			if sess.tracker.MarkSeen(name) {
				logger.With(logger.Fields{logger.FieldSource: name}).
					Warn(ctx, "Source failed: %s", src.Message)
			}
		}
	}
	return newCompletions
}

// consumeAttempt counts a non-terminal tick and reports whether the attempt
// budget is exhausted. Exhaustion is terminal but soft: the warning leaves
// the last synchronized partial view in place.
func (p *Poller) consumeAttempt(ctx context.Context, sess *pollSession) bool {
	sess.mu.Lock()
	sess.attempts++
	attempts := sess.attempts
	sess.mu.Unlock()

	if attempts < p.maxAttempts {
		return false
	}
	logger.With(logger.Fields{logger.FieldAttempt: attempts}).
		Warn(ctx, "Polling attempt budget exhausted, giving up")
	p.notifier.OnOutcome(sess.customerID, OutcomeTimedOut,
		"Collection is taking longer than expected. Partial results are shown; check back in a few minutes.")
	return true
}

func (p *Poller) refresh(ctx context.Context, customerID string) {
	if err := p.refresher.Refresh(ctx, customerID); err != nil {
		logger.CtxWarn(ctx, "View refresh failed: %v", err)
	}
}

// finish tears the session down and clears its state so nothing leaks into a
// later session for the same or another customer.
func (p *Poller) finish(sess *pollSession) {
	sess.cancel()

	sess.mu.Lock()
	sess.tracker.Clear()
	sess.attempts = 0
	sess.mu.Unlock()

	p.mu.Lock()
	if p.sessions[sess.customerID] == sess {
		delete(p.sessions, sess.customerID)
	}
	p.mu.Unlock()

	close(sess.done)
}

func completionMessage(status *domain.CollectionStatus) string {
	if status.Message != "" {
		return status.Message
	}
	return "All data collection complete"
}
