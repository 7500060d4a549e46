package entity

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrClientNotFound = errors.New("client not found")
)

// SubscriptionError means the live feed failed (network, permission, closed broker).
type SubscriptionError struct {
	Collection string
	Err        error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription to %q failed: %v", e.Collection, e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}

// StoreWriteError wraps a failed add, update or remove.
type StoreWriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *StoreWriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s failed: %v", e.Op, e.ID, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

func IsStoreWriteError(err error) bool {
	var swe *StoreWriteError
	return errors.As(err, &swe)
}
