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

package operation

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ⏳ Pending is a transfer running in the background
type Pending struct {
	group *errgroup.Group
	once  sync.Once
	err   error
}

// ⚡ Start runs Transfer in its own goroutine and returns at once
func (o *Orchestrator) Start(ctx context.Context, req Request) *Pending {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return o.Transfer(gctx, req)
	})
	return &Pending{group: g}
}

// Wait blocks until the transfer finishes and returns its outcome. Every call
// returns the same outcome.
func (p *Pending) Wait() error {
	p.once.Do(func() {
		p.err = p.group.Wait()
	})
	return p.err
}
