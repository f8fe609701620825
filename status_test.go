package lokalize

import "testing"

func TestDetermineStatus(t *testing.T) {
	tests := []struct {
		here, upstream bool
		want           KeyStatus
	}{
		{here: true, upstream: true, want: Everywhere},
		{here: false, upstream: true, want: OnlyInParent},
		{here: true, upstream: false, want: OnlyHere},
		{here: false, upstream: false, want: AlreadyDeleted},
	}
	for _, tt := range tests {
		if got := DetermineStatus(tt.here, tt.upstream); got != tt.want {
			t.Fatalf("DetermineStatus(%v, %v) = %v, want %v", tt.here, tt.upstream, got, tt.want)
		}
	}
}

func TestParseKeyStatus(t *testing.T) {
	for _, status := range []KeyStatus{Everywhere, OnlyHere, OnlyInParent, AlreadyDeleted} {
		got, ok := ParseKeyStatus(status.String())
		if !ok || got != status {
			t.Fatalf("round trip %v -> %v (%v)", status, got, ok)
		}
	}
	if got, ok := ParseKeyStatus("only-in-parent"); !ok || got != OnlyInParent {
		t.Fatalf("expected dashed name to parse")
	}
	if _, ok := ParseKeyStatus("sometimes"); ok {
		t.Fatalf("expected unknown status to fail")
	}
}
