package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPCache_RoundTrip(t *testing.T) {
	c := &HTTPCache{Dir: t.TempDir()}
	ctx := context.Background()

	url := "https://example.com/page"
	if err := c.Save(ctx, url, "text/html", `"etag1"`, "Mon, 01 Jan 2024 00:00:00 GMT", []byte("<html>hi</html>")); err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := c.LoadMeta(ctx, url)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.ETag != `"etag1"` || meta.ContentType != "text/html" {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	body, err := c.LoadBody(ctx, url)
	if err != nil {
		t.Fatalf("load body: %v", err)
	}
	if string(body) != "<html>hi</html>" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHTTPCache_MissingEntry(t *testing.T) {
	c := &HTTPCache{Dir: t.TempDir()}
	if _, err := c.LoadMeta(context.Background(), "https://example.com/absent"); err == nil {
		t.Fatalf("expected error for missing meta")
	}
}

func TestLLMCache_RoundTrip(t *testing.T) {
	c := &LLMCache{Dir: t.TempDir()}
	ctx := context.Background()

	key := KeyFrom("test-model", "summarize this")
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatalf("unexpected hit before save")
	}
	if err := c.Save(ctx, key, []byte(`{"summary":"ok"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(b) != `{"summary":"ok"}` {
		t.Fatalf("unexpected payload: %q", b)
	}
}

func TestKeyFrom_DistinguishesModelAndPrompt(t *testing.T) {
	if KeyFrom("a", "p") == KeyFrom("b", "p") {
		t.Fatalf("model must affect the key")
	}
	if KeyFrom("a", "p1") == KeyFrom("a", "p2") {
		t.Fatalf("prompt must affect the key")
	}
}

func TestPurgeByAge(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	httpCache := &HTTPCache{Dir: dir}
	if err := httpCache.Save(ctx, "https://example.com/old", "text/html", "", "", []byte("old")); err != nil {
		t.Fatalf("save: %v", err)
	}
	llmCache := &LLMCache{Dir: dir}
	if err := llmCache.Save(ctx, KeyFrom("m", "old prompt"), []byte("{}")); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Nothing is old enough yet.
	if n, err := PurgeHTTPCacheByAge(dir, time.Hour); err != nil || n != 0 {
		t.Fatalf("unexpected purge: n=%d err=%v", n, err)
	}

	// Backdate everything and purge again.
	old := time.Now().Add(-48 * time.Hour)
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		_ = os.Chtimes(p, old, old)
	}
	if n, err := PurgeLLMCacheByAge(dir, time.Hour); err != nil || n != 1 {
		t.Fatalf("expected one purged summary entry, got n=%d err=%v", n, err)
	}
}

func TestClearDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x.body"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("dir should be recreated: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}
