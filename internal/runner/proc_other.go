//go:build !unix && !windows

package runner

import "os/exec"

func configureProcess(*exec.Cmd) {}

func reclaim(*exec.Cmd) {}
