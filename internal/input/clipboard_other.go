//go:build !linux

package input

import "github.com/go-vgo/robotgo"

func writeClipboard(text string) error {
	return robotgo.WriteAll(text)
}

func newTyper() Typer {
	return robotgoTyper{}
}
