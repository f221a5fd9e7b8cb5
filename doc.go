// Package moneymarket provides the in-memory ledger behind a lending and
// borrowing dashboard. It is designed to be simple, deterministic and
// auditable: every quantity is an exact decimal and every derived figure is
// recomputed from the current state on each read.
//
// The core functionalities include:
//   - Portfolio Ledger: a table of assets (balance, supplied, borrowed) with
//     four validated transitions: supply, withdraw, borrow and repay.
//   - Derived Metrics: total supplied, total borrowed, health factor and
//     borrowing power, never cached.
//   - Actions: user requests parsed from text or JSON and checked against the
//     portfolio before anything else happens, producing user facing errors.
//   - Sessions: the explicitly owned state object that serializes actions,
//     delegates to a pluggable transaction Submitter and keeps receipts.
//
// No network transaction is ever sent: the default Submitter only simulates
// the latency of a contract call. This package serves as the foundational
// logic for the `mmd` command-line tool and its HTTP display surface.
package moneymarket
