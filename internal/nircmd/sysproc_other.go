//go:build !windows

package nircmd

import "os/exec"

func configureCmd(cmd *exec.Cmd, exe, commandLine string) {}
