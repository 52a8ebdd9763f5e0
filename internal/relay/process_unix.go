//go:build unix

package relay

import (
	"os/exec"
	"syscall"
)

// isolate starts the interpreter in its own process group so a kill reaches
// everything the script spawned.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// kill sends SIGKILL to the whole process group of cmd.
func kill(cmd *exec.Cmd) error {
	pid := cmd.Process.Pid
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if err == syscall.ESRCH {
		// Group is gone; fall back to the direct child for the done check.
		return cmd.Process.Kill()
	}
	return err
}
