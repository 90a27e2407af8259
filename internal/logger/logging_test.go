package logger

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewInheritsGlobalLevel(t *testing.T) {
	prev := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(prev)

	l := New("ipc")
	if got := l.GetPrefix(); got != "ipc" {
		t.Errorf("prefix = %q, want %q", got, "ipc")
	}
	if got := l.GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, want %v", got, log.DebugLevel)
	}
}

func TestNewWithConfigOverridesLevel(t *testing.T) {
	l := NewWithConfig("cli", log.ErrorLevel, false, false, log.TextFormatter)
	if got := l.GetPrefix(); got != "cli" {
		t.Errorf("prefix = %q, want %q", got, "cli")
	}
	if got := l.GetLevel(); got != log.ErrorLevel {
		t.Errorf("level = %v, want %v", got, log.ErrorLevel)
	}
}
