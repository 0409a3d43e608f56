/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainguard.dev/depreview/agents/executor/retry"
)

var errTransient = errors.New("rate limited")

func fastConfig(maxRetries int) retry.Config {
	return retry.Config{
		MaxRetries:  maxRetries,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  2 * time.Millisecond,
	}
}

func TestDo(t *testing.T) {
	always := func(error) bool { return true }

	t.Run("success first try", func(t *testing.T) {
		calls := 0
		got, err := retry.Do(context.Background(), fastConfig(3), "op", always, func() (int, error) {
			calls++
			return 42, nil
		})
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if got != 42 || calls != 1 {
			t.Errorf("Do(): got = %d after %d calls, wanted = 42 after 1", got, calls)
		}
	})

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		got, err := retry.Do(context.Background(), fastConfig(3), "op", always, func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errTransient
			}
			return 7, nil
		})
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if got != 7 || calls != 3 {
			t.Errorf("Do(): got = %d after %d calls, wanted = 7 after 3", got, calls)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		_, err := retry.Do(context.Background(), fastConfig(2), "op", always, func() (int, error) {
			calls++
			return 0, errTransient
		})
		if err == nil {
			t.Fatal("Do() error = nil, wanted terminal error")
		}
		if !errors.Is(err, errTransient) {
			t.Errorf("Do() error = %v, wanted wrapped %v", err, errTransient)
		}
		if calls != 3 { // initial + 2 retries
			t.Errorf("call count: got = %d, wanted = 3", calls)
		}
	})

	t.Run("non-retryable fails immediately", func(t *testing.T) {
		calls := 0
		permanent := errors.New("bad request")
		_, err := retry.Do(context.Background(), fastConfig(5), "op",
			func(err error) bool { return !errors.Is(err, permanent) },
			func() (int, error) {
				calls++
				return 0, permanent
			})
		if !errors.Is(err, permanent) {
			t.Errorf("Do() error = %v, wanted %v", err, permanent)
		}
		if calls != 1 {
			t.Errorf("call count: got = %d, wanted = 1", calls)
		}
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := retry.Do(ctx, retry.Config{MaxRetries: 5, BaseBackoff: time.Minute}, "op", always, func() (int, error) {
			return 0, errTransient
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Do() error = %v, wanted context.Canceled", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	if err := retry.DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
	bad := retry.Config{MaxRetries: -1}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() error = nil, wanted negative retries error")
	}
}
