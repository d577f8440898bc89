// Package store defines the persistence contract for question banks.
// Implementations live under internal/platform; callers depend only on the
// interfaces and sentinel errors declared here.
package store
