//go:build !darwin

package trigger

import (
	"errors"
	"reflect"
	"testing"

	hook "github.com/robotn/gohook"
)

const (
	testLeftCtrl  uint16 = 29
	testRightCtrl uint16 = 3613
	testOtherKey  uint16 = 30
)

func newTestHookListener(h Handler) *hookListener {
	return &hookListener{
		codes:   map[uint16]bool{testLeftCtrl: true, testRightCtrl: true},
		flag:    FlagControl,
		handler: h,
	}
}

func keyHold(code uint16) hook.Event { return hook.Event{Kind: hook.KeyHold, Keycode: code} }
func keyUp(code uint16) hook.Event   { return hook.Event{Kind: hook.KeyUp, Keycode: code} }

func TestHookListener_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		events []hook.Event
		want   []string
	}{
		{
			name:   "press and release",
			events: []hook.Event{keyHold(testLeftCtrl), keyUp(testLeftCtrl)},
			want:   []string{SignalStartGlobal, SignalStopGlobal},
		},
		{
			name:   "autorepeat is one press",
			events: []hook.Event{keyHold(testLeftCtrl), keyHold(testLeftCtrl), keyHold(testLeftCtrl)},
			want:   []string{SignalStartGlobal},
		},
		{
			name: "both sides held, stop only after the last one",
			events: []hook.Event{
				keyHold(testLeftCtrl), keyHold(testRightCtrl),
				keyUp(testRightCtrl),
			},
			want: []string{SignalStartGlobal},
		},
		{
			name: "both sides released",
			events: []hook.Event{
				keyHold(testLeftCtrl), keyHold(testRightCtrl),
				keyUp(testLeftCtrl), keyUp(testRightCtrl),
			},
			want: []string{SignalStartGlobal, SignalStopGlobal},
		},
		{
			name:   "other keys are filtered",
			events: []hook.Event{keyHold(testOtherKey), keyUp(testOtherKey)},
			want:   nil,
		},
		{
			name:   "key down kind is not an edge",
			events: []hook.Event{{Kind: hook.KeyDown, Keycode: testLeftCtrl}},
			want:   nil,
		},
		{
			name:   "release without press",
			events: []hook.Event{keyUp(testLeftCtrl)},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordSink{}
			m := NewMachine(NewState(), FlagControl, &fixedProbe{}, sink)
			l := newTestHookListener(m.Handle)

			for _, ev := range tt.events {
				l.dispatch(ev)
			}

			if got := sink.Signals(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHookListener_ReportsOwnFlag(t *testing.T) {
	var got []Flags
	l := newTestHookListener(func(ev Event) Outcome {
		got = append(got, ev.Flags)
		return OutcomeIgnored
	})

	l.dispatch(keyHold(testLeftCtrl))
	l.dispatch(keyUp(testLeftCtrl))

	if want := []Flags{FlagControl, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestHookListener_OldKeyIgnoredAfterMaskChange(t *testing.T) {
	sink := &recordSink{}
	m := NewMachine(NewState(), FlagControl, &fixedProbe{}, sink)
	l := newTestHookListener(m.Handle)

	// Клавиша сменилась, а старый hook ещё работает до переустановки
	m.SetMask(FlagShift)
	l.dispatch(keyHold(testLeftCtrl))
	l.dispatch(keyUp(testLeftCtrl))

	if got := sink.Signals(); len(got) != 0 {
		t.Errorf("old key must not start dictation, got %v", got)
	}
}

func TestHookInstaller_UnsupportedKey(t *testing.T) {
	_, err := NewHookInstaller("fn").Install(func(Event) Outcome { return OutcomeIgnored })
	if !errors.Is(err, ErrUnsupportedKey) {
		t.Errorf("expected ErrUnsupportedKey, got %v", err)
	}
}
