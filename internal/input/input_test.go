package input

import (
	"errors"
	"runtime"
	"testing"
)

type recordTyper struct {
	typed []string
	err   error
}

func (r *recordTyper) Type(text string) error {
	r.typed = append(r.typed, text)
	return r.err
}

func newTestPaster(clip, tap error, typer *recordTyper) (*Paster, *[]string) {
	var clipped []string
	return &Paster{
		writeClipboard: func(text string) error {
			clipped = append(clipped, text)
			return clip
		},
		tapPaste: func() error { return tap },
		fallback: typer,
	}, &clipped
}

func TestPaster_ViaClipboard(t *testing.T) {
	typer := &recordTyper{}
	p, clipped := newTestPaster(nil, nil, typer)

	if err := p.Paste("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*clipped) != 1 || (*clipped)[0] != "hello" {
		t.Errorf("expected clipboard write, got %v", *clipped)
	}
	if len(typer.typed) != 0 {
		t.Errorf("fallback must not be used, got %v", typer.typed)
	}
}

func TestPaster_FallbackOnClipboardError(t *testing.T) {
	typer := &recordTyper{}
	p, _ := newTestPaster(errors.New("no clipboard"), nil, typer)

	if err := p.Paste("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(typer.typed) != 1 || typer.typed[0] != "hello" {
		t.Errorf("expected fallback typing, got %v", typer.typed)
	}
}

func TestPaster_FallbackOnTapError(t *testing.T) {
	typer := &recordTyper{}
	p, _ := newTestPaster(nil, errors.New("no keyboard"), typer)

	if err := p.Paste("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(typer.typed) != 1 {
		t.Errorf("expected fallback typing, got %v", typer.typed)
	}
}

func TestPaster_BothFail(t *testing.T) {
	typer := &recordTyper{err: errors.New("typing failed")}
	p, _ := newTestPaster(errors.New("no clipboard"), nil, typer)

	if err := p.Paste("hello"); err == nil {
		t.Error("expected error when fallback fails")
	}
}

func TestPaster_EmptyText(t *testing.T) {
	typer := &recordTyper{}
	p, clipped := newTestPaster(nil, nil, typer)

	if err := p.Paste(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*clipped) != 0 || len(typer.typed) != 0 {
		t.Error("empty text must be a no-op")
	}
}

func TestPasteModifier(t *testing.T) {
	want := "ctrl"
	if runtime.GOOS == "darwin" {
		want = "cmd"
	}
	if got := pasteModifier(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
