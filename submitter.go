package moneymarket

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// DefaultSubmitDelay is the simulated latency of a contract call.
const DefaultSubmitDelay = 2 * time.Second

// Submitter sends an action to the chain and returns the transaction hash.
//
// The ledger is only updated once Submit has returned successfully.
type Submitter interface {
	Submit(ctx context.Context, action Action) (txHash string, err error)
}

// SimulatedSubmitter waits for a fixed delay and returns a fake transaction
// hash. Nothing is sent anywhere.
type SimulatedSubmitter struct {
	delay   time.Duration
	entropy io.Reader
}

// NewSimulatedSubmitter creates a SimulatedSubmitter with the given latency.
func NewSimulatedSubmitter(delay time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{delay: delay, entropy: rand.Reader}
}

// Delay returns the simulated latency.
func (s *SimulatedSubmitter) Delay() time.Duration { return s.delay }

// Submit simulates a contract call. It returns ctx.Err() if the context is
// done before the delay has elapsed.
func (s *SimulatedSubmitter) Submit(ctx context.Context, action Action) (string, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return mockTxHash(s.entropy)
}

// InstantSubmitter returns a fake transaction hash immediately.
type InstantSubmitter struct{}

// Submit implements Submitter.
func (InstantSubmitter) Submit(ctx context.Context, action Action) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return mockTxHash(rand.Reader)
}

// mockTxHash returns "0x" followed by 64 hex digits.
func mockTxHash(entropy io.Reader) (string, error) {
	var b [32]byte
	if _, err := io.ReadFull(entropy, b[:]); err != nil {
		return "", fmt.Errorf("cannot generate transaction hash: %w", err)
	}
	return "0x" + hex.EncodeToString(b[:]), nil
}
