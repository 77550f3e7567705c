package nircmd

import (
	"fmt"
	"strconv"

	"github.com/mj1618/nirctl/internal/model"
)

// Window commands understood by nircmd's "win" verb.
const (
	WinHide     = "hide"
	WinShow     = "show"
	WinNormal   = "normal"
	WinActivate = "activate"
	WinMin      = "min"
	WinMax      = "max"
	WinClose    = "close"
)

// WinByHandle builds "win <action> handle 0x<hex>".
func WinByHandle(action string, h model.Handle) string {
	return fmt.Sprintf("win %s handle %s", action, h)
}

// WinBySpec builds `win <action> <kind> "<value>"`.
func WinBySpec(action string, spec model.TargetSpec) string {
	return fmt.Sprintf(`win %s %s "%s"`, action, spec.Kind, spec.Value)
}

// SuspendPID builds "suspendprocess /<pid>".
func SuspendPID(pid int) string {
	return "suspendprocess /" + strconv.Itoa(pid)
}

// SuspendName builds "suspendprocess <name>".
func SuspendName(name string) string {
	return BuildCommandLine("suspendprocess", name)
}

// ResumePID builds "resumeprocess /<pid>".
func ResumePID(pid int) string {
	return "resumeprocess /" + strconv.Itoa(pid)
}

// ResumeName builds "resumeprocess <name>".
func ResumeName(name string) string {
	return BuildCommandLine("resumeprocess", name)
}
