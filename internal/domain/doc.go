// Package domain contains the core content entities of the study catalog:
// question banks, the questions inside them, and the card modes a bank can be
// studied in. Entities are read-only once loaded; nothing in the session
// engine mutates them.
package domain
