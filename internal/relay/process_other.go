//go:build !unix

package relay

import "os/exec"

func isolate(cmd *exec.Cmd) {}

func kill(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
