//go:build !darwin

package focus

// KeyWindow на этой платформе недоступен: окно сообщает о фокусе через Tracker.
func KeyWindow(string) Probe {
	return Func(func() bool { return false })
}
