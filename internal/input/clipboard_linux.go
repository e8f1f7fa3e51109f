//go:build linux

package input

import (
	"os"
	"os/exec"
	"strings"

	"github.com/go-vgo/robotgo"
)

func isWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// writeClipboard copies text to system clipboard.
func writeClipboard(text string) error {
	// robotgo работает только через X11
	if isWayland() {
		cmd := exec.Command("wl-copy")
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
	return robotgo.WriteAll(text)
}

type waylandTyper struct{}

func (waylandTyper) Type(text string) error {
	return exec.Command("wtype", text).Run()
}

func newTyper() Typer {
	if isWayland() {
		return waylandTyper{}
	}
	return robotgoTyper{}
}
