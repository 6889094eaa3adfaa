package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Generator hooks
	g := NoopGeneratorHooks{}
	g.OnLayoutStart(ctx, []int{3, 4, 2})
	g.OnLayoutComplete(ctx, 9, 20, time.Second)
	g.OnPruneComplete(ctx, 42, 2, 8)
	g.OnRenderStart(ctx, []string{"svg"})
	g.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Server hooks
	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/preview.png")
	s.OnResponse(ctx, "GET", "/preview.png", 200, time.Second)
	s.OnPreviewRefresh(ctx, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Generator().(NoopGeneratorHooks); !ok {
		t.Error("Generator() should return NoopGeneratorHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	// Set custom hooks
	customGenerator := &testGeneratorHooks{}
	SetGeneratorHooks(customGenerator)
	if Generator() != customGenerator {
		t.Error("SetGeneratorHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Generator().(NoopGeneratorHooks); !ok {
		t.Error("Reset() should restore NoopGeneratorHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGeneratorHooks{}
	SetGeneratorHooks(custom)

	// Setting nil should be ignored
	SetGeneratorHooks(nil)

	if Generator() != custom {
		t.Error("SetGeneratorHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testGeneratorHooks struct{ NoopGeneratorHooks }
type testServerHooks struct{ NoopServerHooks }
