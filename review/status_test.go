/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"errors"
	"sync"
	"testing"
)

func TestLedgerLifecycle(t *testing.T) {
	ledger := NewLedger("a", "b", "c")

	for _, step := range ledger.Snapshot() {
		if step.Status != StatusPending {
			t.Errorf("step %s = %v, wanted pending", step.Name, step.Status)
		}
	}

	ledger.Start("a")
	if got := ledger.Snapshot()[0]; got.Status != StatusRunning || got.StartedAt == nil {
		t.Errorf("step a = %+v, wanted running with start time", got)
	}

	ledger.Complete("a")
	ledger.Fail("b", errors.New("boom"))

	snap := ledger.Snapshot()
	if snap[0].Status != StatusCompleted {
		t.Errorf("step a = %v, wanted completed", snap[0].Status)
	}
	if snap[1].Status != StatusError || snap[1].Error != "boom" {
		t.Errorf("step b = %+v, wanted error boom", snap[1])
	}
	if snap[2].Status != StatusPending {
		t.Errorf("step c = %v, wanted pending", snap[2].Status)
	}
	if !ledger.Failed() {
		t.Error("Failed() = false, wanted true")
	}
}

// A failing step must not prevent its siblings from completing.
func TestLedgerRunAbsorbsErrors(t *testing.T) {
	ledger := NewLedger("ok", "bad")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ledger.Run("bad", func() error { return errors.New("step failed") })
	}()
	go func() {
		defer wg.Done()
		ledger.Run("ok", func() error { return nil })
	}()
	wg.Wait()

	snap := ledger.Snapshot()
	if snap[0].Status != StatusCompleted {
		t.Errorf("step ok = %v, wanted completed", snap[0].Status)
	}
	if snap[1].Status != StatusError || snap[1].Error != "step failed" {
		t.Errorf("step bad = %+v, wanted the recorded error", snap[1])
	}
}

func TestLedgerSnapshotOrder(t *testing.T) {
	ledger := NewLedger("z", "a", "m")
	snap := ledger.Snapshot()
	if snap[0].Name != "z" || snap[1].Name != "a" || snap[2].Name != "m" {
		t.Errorf("Snapshot() order = %v, wanted registration order", snap)
	}
}
