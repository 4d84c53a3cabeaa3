package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/localfile/pkg/observability"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerAnimates(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, true, "Compiling PDF")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Compiling PDF") {
		t.Errorf("no frame written: %q", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, false, "Compiling PDF")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	if out.String() != "" {
		t.Errorf("wrote %q without a terminal", out.String())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out syncBuffer
	s := newSpinnerTo(ctx, &out, true, "Compiling PDF")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("spinner should report cancellation after the context ends")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, true, "x")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerFollowsStages(t *testing.T) {
	t.Cleanup(observability.Reset)

	s := newSpinnerTo(context.Background(), &syncBuffer{}, false, "Assembling...")
	restore := s.follow()

	ctx := context.Background()
	hooks := observability.Assembly()
	hooks.OnResolveStart(ctx, "acme-nl", 12)
	if got, want := s.Message(), "Resolving 12 sections for acme-nl..."; got != want {
		t.Errorf("after resolve: %q, want %q", got, want)
	}
	hooks.OnRenderStart(ctx, "pdf")
	hooks.OnCompileStart(ctx, "out/Acme_NL_BV_Local_File_FY2024.tex")
	if got, want := s.Message(), "Compiling PDF..."; got != want {
		t.Errorf("after compile: %q, want %q", got, want)
	}

	restore()
	if _, ok := observability.Assembly().(observability.NoopAssemblyHooks); !ok {
		t.Errorf("restore left %T registered", observability.Assembly())
	}
}

func TestSpinnerClearsLongerMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, true, "Resolving 12 sections for acme-nl...")
	s.draw("⠋")
	s.SetMessage("Compiling PDF...")
	s.draw("⠙")

	last := out.String()[strings.LastIndex(out.String(), "\r"):]
	if !strings.Contains(last, "Compiling PDF..."+strings.Repeat(" ", 4)) {
		t.Errorf("last frame not padded: %q", last)
	}
}
