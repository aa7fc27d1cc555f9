package version

import "testing"

func TestVersionInfo(t *testing.T) {
	if got, want := String(), "ditherbox v"+Version; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	info := Get()
	for _, key := range []string{"name", "version", "buildTime", "gitCommit"} {
		if info[key] == "" {
			t.Errorf("Get() missing %q", key)
		}
	}
}
