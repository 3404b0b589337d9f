package logger

import (
	"context"
	"testing"
)

func TestWithContextAnnotatesRequestID(t *testing.T) {
	base, err := New("test")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if got := WithContext(nil); got == nil {
		t.Fatal("expected a logger for nil context")
	}
	if got := WithContext(context.Background()); got != base {
		t.Fatal("expected the shared logger when no request id is set")
	}

	ctx := context.WithValue(context.Background(), RequestIDKey{}, "req-123")
	annotated := WithContext(ctx)
	if annotated == nil {
		t.Fatal("expected a logger for annotated context")
	}
	if annotated == base {
		t.Fatal("expected a child logger carrying the request id")
	}
}

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "joh***@example.com"},
		{"ab@example.com", "ab***@example.com"},
		{"", ""},
		{"not-an-email", "***"},
	}
	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Fatalf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskIP(t *testing.T) {
	if got := MaskIP("192.0.2.44"); got != "192.0.*.*" {
		t.Fatalf("unexpected IPv4 mask %q", got)
	}
	if got := MaskIP(""); got != "" {
		t.Fatalf("expected empty mask, got %q", got)
	}
}
