package tray

import (
	"bytes"
	"image/png"
	"testing"
)

func TestIcon_AllStatesDecode(t *testing.T) {
	for _, s := range []State{StateIdle, StateChat, StateGlobal, StateUnavailable} {
		data := Icon(s)
		if len(data) == 0 {
			t.Fatalf("empty icon for state %d", s)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("state %d: %v", s, err)
		}
		if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
			t.Errorf("state %d: unexpected size %v", s, b)
		}
	}
}

func TestIcon_StatesDiffer(t *testing.T) {
	if bytes.Equal(Icon(StateIdle), Icon(StateGlobal)) {
		t.Error("idle and global icons must differ")
	}
}

func TestState_StatusKey(t *testing.T) {
	tests := map[State]string{
		StateIdle:        "tray_ready",
		StateChat:        "tray_recording_chat",
		StateGlobal:      "tray_recording_global",
		StateUnavailable: "tray_unavailable",
	}
	for s, want := range tests {
		if got := s.statusKey(); got != want {
			t.Errorf("state %d: got %q, want %q", s, got, want)
		}
	}
}

func TestTray_StateConcurrentAccess(t *testing.T) {
	tr := New(Callbacks{}, true)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			tr.state.Store(int32(StateGlobal))
			tr.state.Store(int32(StateIdle))
		}
	}()
	for i := 0; i < 1000; i++ {
		_ = tr.State().statusKey()
	}
	<-done

	if got := tr.State(); got != StateIdle {
		t.Errorf("expected idle, got %d", got)
	}
}
