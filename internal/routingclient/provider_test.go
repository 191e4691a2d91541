package routingclient

import "testing"

func TestNewProviderDefaultsToOSRM(t *testing.T) {
	p, err := newProvider("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "osrm" {
		t.Fatalf("expected default provider osrm, got %q", p.Name())
	}
}

func TestNewProviderORS(t *testing.T) {
	p, err := newProvider("ors", "https://example.test", "key")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "ors" {
		t.Fatalf("expected provider ors, got %q", p.Name())
	}
}

func TestNewProviderRejectsUnknown(t *testing.T) {
	if _, err := newProvider("valhalla", "", ""); err == nil {
		t.Fatal("expected an error for an unsupported provider name")
	}
}

func TestDefaultString(t *testing.T) {
	if got := defaultString("", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := defaultString("set", "fallback"); got != "set" {
		t.Fatalf("expected the explicit value to win, got %q", got)
	}
}
