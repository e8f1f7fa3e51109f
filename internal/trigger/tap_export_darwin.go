//go:build darwin

package trigger

/*
#include <stdint.h>
*/
import "C"

import "runtime/cgo"

//export goTapEvent
func goTapEvent(handle C.uintptr_t, typ C.uint32_t, flags C.uint64_t) C.int {
	h, ok := cgo.Handle(handle).Value().(Handler)
	if !ok {
		return 0
	}
	if h(Event{Type: EventType(typ), Flags: Flags(flags)}) == OutcomeDisabled {
		return 1
	}
	return 0
}
