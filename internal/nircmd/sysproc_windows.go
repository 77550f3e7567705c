//go:build windows

package nircmd

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// configureCmd hides the console window and hands nircmd the original
// command line so its own quoting rules apply.
func configureCmd(cmd *exec.Cmd, exe, commandLine string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
		CmdLine:       windows.EscapeArg(exe) + " " + commandLine,
	}
}
