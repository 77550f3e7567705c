//go:build windows

package windows

import (
	"context"
	"os"
	"sync"

	w32 "golang.org/x/sys/windows"

	"github.com/mj1618/nirctl/internal/model"
)

var (
	user32                   = w32.NewLazySystemDLL("user32.dll")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
)

const (
	classNameMax = 256
	imagePathMax = 32768
)

// EnumWindows callbacks cannot be released, so one is created for the
// process and enumerations are serialized through enumMu.
var (
	enumMu       sync.Mutex
	enumHandles  []w32.HWND
	enumCallback = w32.NewCallback(func(hwnd w32.HWND, _ uintptr) uintptr {
		enumHandles = append(enumHandles, hwnd)
		return 1
	})
)

// Enumerator lists visible top-level windows through user32.
type Enumerator struct {
	selfPID uint32
}

// NewEnumerator returns an Enumerator that skips this process's own windows.
func NewEnumerator() *Enumerator {
	return &Enumerator{selfPID: uint32(os.Getpid())}
}

// Enumerate walks the top-level windows in z-order.
func (e *Enumerator) Enumerate(ctx context.Context) ([]model.Window, error) {
	handles, err := topLevelHandles()
	if err != nil {
		return nil, err
	}

	images := make(map[uint32]string)
	out := []model.Window{}
	for _, hwnd := range handles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !w32.IsWindowVisible(hwnd) {
			continue
		}
		var pid uint32
		if _, err := w32.GetWindowThreadProcessId(hwnd, &pid); err != nil || pid == 0 || pid == e.selfPID {
			continue
		}
		path, ok := images[pid]
		if !ok {
			path = imagePath(pid)
			images[pid] = path
		}
		title := windowText(hwnd)
		process := model.ProcessNameFromPath(path)
		if title == "" && process == "" {
			continue
		}
		out = append(out, model.Window{
			Handle:      model.Handle(hwnd),
			PID:         int(pid),
			Process:     process,
			ProcessPath: path,
			Class:       className(hwnd),
			Title:       title,
		})
	}
	return out, nil
}

func topLevelHandles() ([]w32.HWND, error) {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumHandles = enumHandles[:0]
	if err := w32.EnumWindows(enumCallback, nil); err != nil {
		return nil, err
	}
	return append([]w32.HWND(nil), enumHandles...), nil
}

func windowText(hwnd w32.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	copied, err := w32.GetWindowText(hwnd, &buf[0], int32(len(buf)))
	if err != nil || copied == 0 {
		return ""
	}
	return w32.UTF16ToString(buf[:copied])
}

func className(hwnd w32.HWND) string {
	buf := make([]uint16, classNameMax)
	copied, err := w32.GetClassName(hwnd, &buf[0], int32(len(buf)))
	if err != nil || copied == 0 {
		return ""
	}
	return w32.UTF16ToString(buf[:copied])
}

// imagePath returns the full executable path of pid, or "" when the
// process cannot be opened (elevated or already gone).
func imagePath(pid uint32) string {
	h, err := w32.OpenProcess(w32.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer func() { _ = w32.CloseHandle(h) }()

	buf := make([]uint16, imagePathMax)
	size := uint32(len(buf))
	if err := w32.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return w32.UTF16ToString(buf[:size])
}
