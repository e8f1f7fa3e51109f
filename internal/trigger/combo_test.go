package trigger

import (
	"reflect"
	"testing"
	"time"

	"golang.design/x/hotkey"
)

func newTestComboListener(h Handler) (*comboListener, chan hotkey.Event, chan hotkey.Event) {
	down := make(chan hotkey.Event, 4)
	up := make(chan hotkey.Event, 4)
	m := NewMachine(NewState(), FlagFn, nil, nil)
	return &comboListener{keydown: down, keyup: up, mask: m, handler: h}, down, up
}

func TestComboListener_KeydownKeyupBecomeEdges(t *testing.T) {
	var got []Flags
	l, down, up := newTestComboListener(func(ev Event) Outcome {
		got = append(got, ev.Flags)
		return OutcomeIgnored
	})

	down <- hotkey.Event{}
	if res, err := l.Pump(20 * time.Millisecond); err != nil || res != PumpTimedOut {
		t.Fatalf("unexpected pump result %v, %v", res, err)
	}
	up <- hotkey.Event{}
	l.Pump(20 * time.Millisecond)

	if want := []Flags{FlagFn, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestComboListener_DrivesMachine(t *testing.T) {
	sink := &recordSink{}
	m := NewMachine(NewState(), FlagFn, &fixedProbe{}, sink)
	l, down, up := newTestComboListener(m.Handle)

	down <- hotkey.Event{}
	l.Pump(20 * time.Millisecond)
	up <- hotkey.Event{}
	l.Pump(20 * time.Millisecond)

	want := []string{SignalStartGlobal, SignalStopGlobal}
	if got := sink.Signals(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestComboListener_ClosedChannelFinishes(t *testing.T) {
	tests := []struct {
		name  string
		close func(down, up chan hotkey.Event)
	}{
		{"keydown closed", func(down, _ chan hotkey.Event) { close(down) }},
		{"keyup closed", func(_, up chan hotkey.Event) { close(up) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, down, up := newTestComboListener(func(Event) Outcome { return OutcomeIgnored })
			tt.close(down, up)

			if res, _ := l.Pump(time.Second); res != PumpFinished {
				t.Errorf("expected PumpFinished, got %v", res)
			}
		})
	}
}
