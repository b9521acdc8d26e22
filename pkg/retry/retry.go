// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	goretry "github.com/sethvargo/go-retry"
	"github.com/walteh/datatransfer/pkg/failure"
)

const (
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second
	DefaultMaxBackoff     = 30 * time.Second
)

// Policy retries transient HTTP failures with exponential backoff. The zero
// value is not usable; start from Default.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
	// InitialBackoff is the delay before the first retry; it doubles on each
	// following retry.
	InitialBackoff time.Duration
	// MaxBackoff caps a single delay. Zero means uncapped.
	MaxBackoff time.Duration
	// OnRetry, if set, is called before sleeping ahead of every retry.
	OnRetry func(system string, attempt int, err error)
}

func Default() Policy {
	return Policy{
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
	}
}

func (p Policy) backoff() goretry.Backoff {
	base := p.InitialBackoff
	if base <= 0 {
		base = DefaultInitialBackoff
	}
	b := goretry.NewExponential(base)
	if p.MaxBackoff > 0 {
		b = goretry.WithCappedDuration(p.MaxBackoff, b)
	}
	return goretry.WithMaxRetries(p.MaxRetries, b)
}

// Do runs fn, retrying it while it fails with a transient failure. Any other
// error is returned at once. When retries run out the last failure is returned
// as fn produced it. Once ctx is done no further attempt is made and the
// context error is returned.
func (p Policy) Do(ctx context.Context, system string, fn func(ctx context.Context) error) error {
	var (
		attempt int
		lastErr error
	)

	// go-retry asks for the next delay only after a retryable failure, so this
	// is where the retry is announced.
	backoff := p.backoff()
	announce := goretry.BackoffFunc(func() (time.Duration, bool) {
		delay, stop := backoff.Next()
		if stop {
			return 0, true
		}
		zerolog.Ctx(ctx).Warn().
			Err(lastErr).
			Str("system", system).
			Int("retry", attempt).
			Uint64("max_retries", p.MaxRetries).
			Dur("delay", delay).
			Msg("transient failure, will retry")
		if p.OnRetry != nil {
			p.OnRetry(system, attempt, lastErr)
		}
		return delay, false
	})

	return goretry.Do(ctx, announce, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			zerolog.Ctx(ctx).Debug().
				Str("system", system).
				Int("attempt", attempt).
				Msg("retrying request")
		}

		err := fn(ctx)
		if err == nil || !failure.IsTransient(err) {
			return err
		}
		lastErr = err
		return goretry.RetryableError(err)
	})
}
