package moneymarket

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Receipt is the outcome of an applied action.
type Receipt struct {
	ID      string    // ID uniquely identifies the receipt in the session.
	Action  Action    // Action as requested.
	Symbol  string    // Symbol of the asset the action applied to.
	Amount  Amount    // Amount parsed from the action.
	TxHash  string    // TxHash returned by the submitter.
	Message string    // Message is the confirmation shown to the user.
	Time    time.Time // Time at which the ledger was updated.
}

// MarshalJSON implements the json.Marshaler interface for Receipt.
func (r Receipt) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.EmbedFrom(r.Action)
	w.Append("symbol", r.Symbol)
	w.Append("txHash", r.TxHash)
	w.Append("message", r.Message)
	w.Append("time", r.Time.UTC().Format(time.RFC3339))
	return w.MarshalJSON()
}

// Session owns a Portfolio for its whole lifetime and is the only way to
// change it: actions are validated, submitted and then applied.
//
// Actions are serialized, one runs to completion before the next starts.
// Snapshots can be taken at any time, including while an action is waiting
// for its submission.
type Session struct {
	exec sync.Mutex // serializes Execute

	mu        sync.RWMutex // guards the fields below
	portfolio *Portfolio
	receipts  []Receipt
	listeners map[int]func(Snapshot)
	nextID    int

	submitter Submitter
	log       zerolog.Logger
	now       func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used to trace actions.
func WithLogger(log zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.log = log
	}
}

// WithClock sets the clock used to timestamp receipts.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates a session owning 'p'. A nil submitter means InstantSubmitter.
func NewSession(p *Portfolio, submitter Submitter, options ...SessionOption) *Session {
	if submitter == nil {
		submitter = InstantSubmitter{}
	}
	s := &Session{
		portfolio: p,
		listeners: make(map[int]func(Snapshot)),
		submitter: submitter,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Snapshot returns the current state of the portfolio.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.portfolio.Snapshot()
}

// Receipts returns the applied actions, oldest first.
func (s *Session) Receipts() []Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.receipts)
}

// Subscribe registers 'f' to be called with a new snapshot after every
// applied action. The returned function unregisters it.
//
// 'f' is called synchronously and must not block nor call back the session.
func (s *Session) Subscribe(f func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = f
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Execute validates 'action' against the current state, submits it and
// applies it to the portfolio.
//
// If ctx is done before the submission completes the action is abandoned and
// the portfolio is unchanged. Once applied, an action is never rolled back.
func (s *Session) Execute(ctx context.Context, action Action) (Receipt, error) {
	s.exec.Lock()
	defer s.exec.Unlock()

	// Commands are case insensitive, receipts and logs use the canonical name.
	if cmd, err := ParseCommandType(string(action.Command)); err == nil {
		action.Command = cmd
	}

	log := s.log.With().
		Str("command", string(action.Command)).
		Str("denom", action.Denom).
		Str("amount", action.Amount).
		Logger()

	amount, err := action.Validate(s.Snapshot())
	if err != nil {
		log.Warn().Err(err).Msg("action rejected")
		return Receipt{}, err
	}

	log.Debug().Msg("submitting action")
	txHash, err := s.submitter.Submit(ctx, action)
	if err != nil {
		log.Warn().Err(err).Msg("submission failed")
		return Receipt{}, fmt.Errorf("cannot submit %q: %w", action, err)
	}

	s.mu.Lock()
	if err := s.portfolio.Apply(action.Command, action.Denom, amount); err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Str("tx", txHash).Msg("submitted action could not be applied")
		return Receipt{}, err
	}
	asset, _ := s.portfolio.Asset(action.Denom)
	receipt := Receipt{
		ID:      uuid.NewString(),
		Action:  action,
		Symbol:  asset.Symbol(),
		Amount:  amount,
		TxHash:  txHash,
		Message: action.successMessage(asset.Symbol(), amount, txHash),
		Time:    s.now(),
	}
	s.receipts = append(s.receipts, receipt)
	snapshot := s.portfolio.Snapshot()
	listeners := slices.Collect(maps.Values(s.listeners))
	s.mu.Unlock()

	for _, f := range listeners {
		f(snapshot)
	}

	log.Info().
		Str("tx", txHash).
		Str("total_supplied", snapshot.TotalSupplied.Fixed(2)).
		Str("total_borrowed", snapshot.TotalBorrowed.Fixed(2)).
		Str("health_factor", snapshot.HealthFactor.String()).
		Msg("action applied")
	return receipt, nil
}
