//go:build darwin

package focus

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework Foundation
#import <AppKit/AppKit.h>
#include <stdlib.h>
#include <string.h>

// Заголовок key window приложения или NULL. Освобождает вызывающий.
static char *keyWindowTitle(void) {
	@autoreleasepool {
		NSWindow *win = [[NSApplication sharedApplication] keyWindow];
		if (win == nil) {
			return NULL;
		}
		NSString *title = [win title];
		if (title == nil) {
			return NULL;
		}
		const char *utf8 = [title UTF8String];
		if (utf8 == NULL) {
			return NULL;
		}
		return strdup(utf8);
	}
}
*/
import "C"
import "unsafe"

// KeyWindow возвращает Probe, который сравнивает заголовок key window
// процесса с title.
func KeyWindow(title string) Probe {
	return Safe(Func(func() bool {
		ctitle := C.keyWindowTitle()
		if ctitle == nil {
			return false
		}
		defer C.free(unsafe.Pointer(ctitle))
		return C.GoString(ctitle) == title
	}))
}
