//go:build windows

package tty

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procPeekConsoleInput = kernel32.NewProc("PeekConsoleInputW")
	procReadConsoleInput = kernel32.NewProc("ReadConsoleInputW")
)

const keyEvent = 0x0001

// inputRecord mirrors INPUT_RECORD. Only the KEY_EVENT_RECORD member of the
// event union is read
type inputRecord struct {
	eventType       uint16
	_               uint16
	keyDown         int32
	repeatCount     uint16
	virtualKeyCode  uint16
	virtualScanCode uint16
	char            uint16
	controlKeyState uint32
}

// isCharacter reports whether ReadFile returns text for the record
func (r inputRecord) isCharacter() bool {
	return r.eventType == keyEvent && r.keyDown != 0 && r.char != 0
}

func peekConsoleInput(h windows.Handle, records []inputRecord) (uint32, error) {
	return consoleInput(procPeekConsoleInput, h, records)
}

func readConsoleInput(h windows.Handle, records []inputRecord) (uint32, error) {
	return consoleInput(procReadConsoleInput, h, records)
}

func consoleInput(proc *windows.LazyProc, h windows.Handle, records []inputRecord) (uint32, error) {
	if len(records) == 0 {
		return 0, nil
	}
	var n uint32
	r, _, err := proc.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&records[0])),
		uintptr(len(records)),
		uintptr(unsafe.Pointer(&n)),
	)
	if r == 0 {
		return 0, err
	}
	return n, nil
}
