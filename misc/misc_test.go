package misc

import "testing"

func TestIdentity(t *testing.T) {
	if GetAppName() != "geocss" {
		t.Errorf("GetAppName() = %q", GetAppName())
	}
	if GetVersion() == "" {
		t.Error("GetVersion() is empty")
	}
	if GetGitHash() == "" {
		t.Error("GetGitHash() is empty")
	}

	old := gitHash
	gitHash = "abc123"
	defer func() { gitHash = old }()
	if GetGitHash() != "abc123" {
		t.Errorf("GetGitHash() = %q, want abc123", GetGitHash())
	}
}
