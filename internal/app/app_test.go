package app

import (
	"testing"

	"spaceduck/internal/config"
	"spaceduck/internal/tray"
	"spaceduck/internal/trigger"
)

func TestTriggerMask(t *testing.T) {
	tests := []struct {
		name   string
		source string
		key    string
		want   trigger.Flags
	}{
		{"fn tap", config.SourceTap, "fn", trigger.FlagFn},
		{"ctrl tap", config.SourceTap, "ctrl", trigger.FlagControl},
		{"unknown tap never fires", config.SourceTap, "hyper", 0},
		{"combo with unknown key still fires", config.SourceCombo, "", trigger.FlagFn},
		{"combo keeps known key", config.SourceCombo, "alt", trigger.FlagAlternate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := triggerMask(tt.source, tt.key); got != tt.want {
				t.Errorf("triggerMask(%q, %q) = %#x, want %#x", tt.source, tt.key, got, tt.want)
			}
		})
	}
}

func TestTrayState(t *testing.T) {
	tests := map[trigger.Mode]tray.State{
		trigger.ModeIdle:   tray.StateIdle,
		trigger.ModeChat:   tray.StateChat,
		trigger.ModeGlobal: tray.StateGlobal,
	}
	for m, want := range tests {
		if got := trayState(m); got != want {
			t.Errorf("trayState(%v) = %v, want %v", m, got, want)
		}
	}
}
