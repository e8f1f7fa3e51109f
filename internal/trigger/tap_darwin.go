//go:build darwin

package trigger

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdint.h>
#include <stdlib.h>

extern int goTapEvent(uintptr_t handle, uint32_t type, uint64_t flags);

typedef struct {
	uintptr_t handle;
	CFMachPortRef port;
	CFRunLoopSourceRef source;
} tapContext;

// Колбэк только читает событие и всегда возвращает его без изменений.
static CGEventRef tapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon) {
	tapContext *ctx = (tapContext *)refcon;
	uint64_t flags = event != NULL ? (uint64_t)CGEventGetFlags(event) : 0;
	if (goTapEvent(ctx->handle, (uint32_t)type, flags) && ctx->port != NULL) {
		CGEventTapEnable(ctx->port, true);
	}
	return event;
}

static tapContext *tapNew(uintptr_t handle) {
	tapContext *ctx = calloc(1, sizeof(tapContext));
	if (ctx != NULL) {
		ctx->handle = handle;
	}
	return ctx;
}

// 0 - успех, 1 - не создан tap, 2 - не создан источник run loop.
static int tapInstall(tapContext *ctx) {
	ctx->port = CGEventTapCreate(
		kCGHIDEventTap,
		kCGHeadInsertEventTap,
		kCGEventTapOptionListenOnly,
		CGEventMaskBit(kCGEventFlagsChanged),
		tapCallback,
		ctx
	);
	if (ctx->port == NULL) {
		return 1;
	}

	ctx->source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, ctx->port, 0);
	if (ctx->source == NULL) {
		CFMachPortInvalidate(ctx->port);
		CFRelease(ctx->port);
		ctx->port = NULL;
		return 2;
	}

	CFRunLoopAddSource(CFRunLoopGetCurrent(), ctx->source, kCFRunLoopDefaultMode);
	return 0;
}

static void tapEnable(tapContext *ctx) {
	if (ctx->port != NULL) {
		CGEventTapEnable(ctx->port, true);
	}
}

static int tapPump(double seconds) {
	return (int)CFRunLoopRunInMode(kCFRunLoopDefaultMode, seconds, false);
}

static void tapFree(tapContext *ctx) {
	if (ctx->source != NULL) {
		CFRunLoopRemoveSource(CFRunLoopGetCurrent(), ctx->source, kCFRunLoopDefaultMode);
		CFRelease(ctx->source);
	}
	if (ctx->port != NULL) {
		CGEventTapEnable(ctx->port, false);
		CFMachPortInvalidate(ctx->port);
		CFRelease(ctx->port);
	}
	free(ctx);
}
*/
import "C"

import (
	"runtime/cgo"
	"time"
)

// TapInstaller ставит CGEventTap уровня HID, чтобы видеть Fn/Globe раньше,
// чем система откроет выбор эмодзи. Нужны разрешения Accessibility и
// Input Monitoring.
type TapInstaller struct{}

// NewTapInstaller создаёт установщик CGEventTap.
func NewTapInstaller() *TapInstaller {
	return &TapInstaller{}
}

// Install создаёт tap и добавляет его источник в run loop текущего потока.
func (i *TapInstaller) Install(h Handler) (Listener, error) {
	handle := cgo.NewHandle(h)
	ctx := C.tapNew(C.uintptr_t(handle))
	if ctx == nil {
		handle.Delete()
		return nil, ErrTapCreate
	}

	switch C.tapInstall(ctx) {
	case 0:
	case 2:
		C.tapFree(ctx)
		handle.Delete()
		return nil, ErrSourceCreate
	default:
		C.tapFree(ctx)
		handle.Delete()
		return nil, ErrTapCreate
	}

	return &tapListener{ctx: ctx, handle: handle}, nil
}

// Значения CFRunLoopRunResult.
const (
	runLoopFinished      = 1
	runLoopStopped       = 2
	runLoopHandledSource = 4
)

type tapListener struct {
	ctx    *C.tapContext
	handle cgo.Handle
}

func (l *tapListener) Enable() {
	C.tapEnable(l.ctx)
}

func (l *tapListener) Pump(quantum time.Duration) (PumpResult, error) {
	switch int(C.tapPump(C.double(quantum.Seconds()))) {
	case runLoopFinished:
		return PumpFinished, nil
	case runLoopStopped:
		return PumpStopped, nil
	case runLoopHandledSource:
		return PumpHandled, nil
	}
	return PumpTimedOut, nil
}

func (l *tapListener) Close() {
	C.tapFree(l.ctx)
	l.handle.Delete()
}

// NewPlatformInstaller возвращает установщик по умолчанию для macOS.
// Имя клавиши здесь не нужно: tap видит все модификаторы.
func NewPlatformInstaller(key string, _ MaskSource) Installer {
	return NewTapInstaller()
}
