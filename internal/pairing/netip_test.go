package pairing

import "testing"

func TestAdvertiseHost(t *testing.T) {
	if got := AdvertiseHost("192.168.1.5"); got != "192.168.1.5" {
		t.Errorf("AdvertiseHost(concrete) = %q, want passthrough", got)
	}

	// Wildcard binds resolve to something usable, never the wildcard itself.
	for _, bind := range []string{"", "0.0.0.0", "::"} {
		got := AdvertiseHost(bind)
		if got == "" || got == "0.0.0.0" || got == "::" {
			t.Errorf("AdvertiseHost(%q) = %q, want a concrete host", bind, got)
		}
	}
}
