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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/datatransfer/pkg/data"
)

// 🎨 Display configuration
const (
	paramIndent = 2  // spaces to indent parameter lines
	labelWidth  = 12 // width of the parameter side label
)

// 📦 TransferOperation describes a transfer for display
type TransferOperation struct {
	Source            string
	Destination       string
	DataType          string
	SourceParams      data.Params
	DestinationParams data.Params
}

// 🎯 Reporter prints user-facing progress to the console and mirrors every
// line to a zerolog logger.
type Reporter struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a reporter writing to console
func New(console io.Writer, zlog zerolog.Logger) *Reporter {
	return &Reporter{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the reporter from context
func FromContext(ctx context.Context) *Reporter {
	r, ok := ctx.Value(contextKey{}).(*Reporter)
	if !ok {
		panic("reporter not found in context")
	}
	return r
}

// 🎯 NewContext adds the reporter to context
func NewContext(ctx context.Context, r *Reporter) context.Context {
	return context.WithValue(ctx, contextKey{}, r)
}

func formatParams(label string, p data.Params) string {
	pairs := make([]string, 0, p.Len())
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		pairs = append(pairs, k+"="+v)
	}
	value := color.New(color.Faint).Sprint("(none)")
	if len(pairs) > 0 {
		value = strings.Join(pairs, " ")
	}
	return fmt.Sprintf("%*s%-*s %s", paramIndent, "", labelWidth, label, value)
}

// 📝 StartTransfer prints the transfer being attempted
func (r *Reporter) StartTransfer(op TransferOperation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.console, "%s %s %s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Source),
		color.New(color.Faint).Sprint("→"),
		color.New(color.Bold).Sprint(op.Destination),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.DataType))
	fmt.Fprintln(r.console, formatParams("source", op.SourceParams))
	fmt.Fprintln(r.console, formatParams("destination", op.DestinationParams))

	r.zlog.Debug().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Str("data_type", op.DataType).
		Strs("source_params", op.SourceParams.Keys()).
		Strs("destination_params", op.DestinationParams.Keys()).
		Msg("starting transfer")
}

// 📝 Header logs a header
func (r *Reporter) Header(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("datatransfer")
	fmt.Fprintf(r.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	r.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (r *Reporter) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	r.zlog.Debug().Msg(msg)
}

// 📝 Error logs an error message
func (r *Reporter) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	r.zlog.Debug().Msg(msg)
}

// 📝 Detail prints an indented follow-up line, e.g. the reason for a failure
func (r *Reporter) Detail(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(r.console, "%*s%s\n", paramIndent+1, "", line)
	}
	r.zlog.Debug().Msg(msg)
}

// 📝 Errorf logs a formatted error message
func (r *Reporter) Errorf(format string, args ...interface{}) {
	r.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (r *Reporter) Successf(format string, args ...interface{}) {
	r.Success(fmt.Sprintf(format, args...))
}
