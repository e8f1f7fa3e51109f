//go:build linux

package indicator

import (
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
)

// moveWindow moves the window found by title and keeps it on top.
func moveWindow(title string, at image.Point) error {
	// Find window by title
	output, err := exec.Command("xdotool", "search", "--name", title).Output()
	if err != nil {
		return fmt.Errorf("xdotool search: %w", err)
	}

	windowIDs := strings.Fields(string(output))
	if len(windowIDs) == 0 {
		return fmt.Errorf("окно %q не найдено", title)
	}
	windowID := windowIDs[0]

	moveCmd := exec.Command("xdotool", "windowmove", windowID, strconv.Itoa(at.X), strconv.Itoa(at.Y))
	if err := moveCmd.Run(); err != nil {
		return fmt.Errorf("xdotool windowmove: %w", err)
	}

	// Try to set always-on-top using wmctrl
	wmctrlCmd := exec.Command("wmctrl", "-i", "-r", windowID, "-b", "add,above")
	if err := wmctrlCmd.Run(); err != nil {
		// wmctrl might not be installed, try xprop alternative
		xpropCmd := exec.Command("xprop", "-id", windowID, "-f", "_NET_WM_STATE", "32a",
			"-set", "_NET_WM_STATE", "_NET_WM_STATE_ABOVE")
		xpropCmd.Run()
	}
	return nil
}
