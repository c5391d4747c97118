package version

import (
	"testing"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestString(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	// simulating build-time ldflags
	Version = "1.2.3"
	GitCommit = ""
	BuildDate = ""
	if got := String(); got != "vuec 1.2.3" {
		t.Errorf("String() = %q", got)
	}

	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"
	if got, want := String(), "vuec 1.2.3 (abc123def456) built 2024-01-15T10:30:00Z"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func BenchmarkString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = String()
	}
}
