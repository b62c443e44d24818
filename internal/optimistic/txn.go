// Package optimistic provides the snapshot / apply / persist / restore
// cycle used for optimistic local updates: the local change lands
// immediately, and a failed persist puts the captured snapshot back.
package optimistic

import "context"

// Transaction describes one optimistic update over a value of type T.
// Snapshot captures the pre-change value, Apply installs the optimistic
// value locally, Persist performs the remote write, and Restore reinstates
// the captured snapshot when Persist fails.
type Transaction[T any] struct {
	Snapshot func() T
	Apply    func()
	Persist  func(ctx context.Context) error
	Restore  func(snapshot T)
}

// Run executes the transaction. The optimistic value is visible from the
// moment Apply returns until Persist resolves; on persist failure the
// snapshot is restored before the error is returned.
func (t Transaction[T]) Run(ctx context.Context) error {
	var snapshot T
	if t.Snapshot != nil {
		snapshot = t.Snapshot()
	}
	if t.Apply != nil {
		t.Apply()
	}

	var err error
	if t.Persist != nil {
		err = t.Persist(ctx)
	}
	if err != nil && t.Restore != nil {
		t.Restore(snapshot)
	}
	return err
}
