// Package quiz implements the study session engine.
//
// A Session is the state machine for one in-progress study session: which
// questions remain, which have been answered, the current Phase, and the
// batch state used by the table, cloze and sentence-by-sentence modes. All
// randomness is drawn when a session starts or an item or batch is drawn, and
// the result is cached on the session so repeated renders are stable.
//
// The render side is pure: ContractFor maps a mode to its presentation
// contract, Render maps a session to one of a closed set of Card variants,
// and AvailableActions derives the controls shown beneath the card.
//
// Orchestrator composes a Session with a BankFetcher and an optional
// Pronouncer and exposes a single command-driven API to the transport layer.
//
// Sessions and orchestrators are single-writer values; callers sharing one
// across goroutines must serialize access.
package quiz
