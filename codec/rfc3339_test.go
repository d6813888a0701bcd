package codec

import (
	"testing"
	"time"

	jsonkit "github.com/reoring/jsonkit"
)

func TestParseRFC3339_Basic(t *testing.T) {
	got, err := parseRFC3339("2025-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}
	if out := formatRFC3339Canonical(got); out != "2025-01-01T00:00:00Z" {
		t.Fatalf("roundtrip mismatch: %s", out)
	}
}

func TestParseRFC3339_FractionAndOffset(t *testing.T) {
	got, err := parseRFC3339("2025-01-01T09:00:00.120+09:00")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if out := formatRFC3339Canonical(got); out != "2025-01-01T00:00:00.12Z" {
		t.Fatalf("expected UTC with trimmed fraction, got %s", out)
	}
	if _, err := parseRFC3339("2025-13-01"); err == nil {
		t.Fatalf("expected error for invalid time")
	}
}

func TestTimeHooks_Installed(t *testing.T) {
	c := New()
	ts := time.Date(2024, 2, 29, 12, 30, 0, 0, time.FixedZone("JST", 9*3600))
	n, err := c.Encode(ts)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if s, _ := n.StringValue(); s != "2024-02-29T03:30:00Z" {
		t.Fatalf("unexpected encoding %q", s)
	}
	if p, err := c.Encode(&ts); err != nil || p.Text() != "2024-02-29T03:30:00Z" {
		t.Fatalf("pointer should use the same hook, got %v (err=%v)", p, err)
	}

	back, err := DecodeInto[time.Time](c, n)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !back.Equal(ts) {
		t.Fatalf("expected %v, got %v", ts, back)
	}

	_, err = DecodeInto[time.Time](c, jsonkit.Int(1))
	if e, ok := jsonkit.AsError(err); !ok || e.Code != jsonkit.CodeWrongShape {
		t.Fatalf("expected wrong shape, got %v", err)
	}
	_, err = DecodeInto[time.Time](c, jsonkit.String("yesterday"))
	if e, ok := jsonkit.AsError(err); !ok || e.Code != jsonkit.CodeInvalidArgument || e.Data().Get("value").Text() != "yesterday" {
		t.Fatalf("expected invalid argument with the value, got %v", err)
	}
}
