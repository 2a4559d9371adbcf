//go:build windows

package runner

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// configureProcess keeps tracert from flashing a console window. tracert
// does not fork, so the default Cancel (Process.Kill) reclaims it.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

func reclaim(*exec.Cmd) {}
