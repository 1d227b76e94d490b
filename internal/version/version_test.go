package version

import "testing"

func TestString(t *testing.T) {
	Version, Commit = "1.2.3", "abc1234"
	defer func() { Version, Commit = "dev", "unknown" }()

	if got, want := String(), "1.2.3 (abc1234)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Current(); got.Version != "1.2.3" || got.Commit != "abc1234" {
		t.Errorf("Current() = %+v", got)
	}
}
