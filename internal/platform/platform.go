// Package platform maps the running operating system to the ordered list
// of path-tracing commands worth trying on it.
package platform

import (
	"os/exec"
	"runtime"
)

// OS identifies the family of operating system the process runs on.
type OS int

const (
	// Unix covers every non-Windows GOOS (linux, darwin, the BSDs, ...).
	Unix OS = iota
	// Windows ships a single standard tool, tracert.
	Windows
)

func (o OS) String() string {
	switch o {
	case Windows:
		return "windows"
	default:
		return "unix"
	}
}

// Current is the OS family of this process, fixed at startup.
var Current = Detect(runtime.GOOS)

// Detect maps a GOOS value to its OS family.
func Detect(goos string) OS {
	if goos == "windows" {
		return Windows
	}
	return Unix
}

// Candidate is one executable and argument list that can trace a route.
type Candidate struct {
	Name string
	Args []string
}

// Argv returns the candidate as a single argv slice.
func (c Candidate) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Candidates returns the commands to try for target on os, in priority
// order. The list is freshly allocated on every call.
func Candidates(os OS, target string) []Candidate {
	if os == Windows {
		// -d skips reverse DNS, which is slow and makes output nondeterministic.
		return []Candidate{
			{Name: "tracert", Args: []string{"-d", target}},
		}
	}
	return []Candidate{
		{Name: "traceroute", Args: []string{target}},
		{Name: "tracepath", Args: []string{target}},
	}
}

// Names returns the executable names of cs in order.
func Names(cs []Candidate) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

// Tool describes whether a candidate executable resolves on PATH.
type Tool struct {
	Name string
	Path string // empty when not found
}

// Available looks up each candidate's executable on PATH. It is purely
// informational; absence is only acted on when a spawn actually fails.
func Available(cs []Candidate) []Tool {
	tools := make([]Tool, len(cs))
	for i, c := range cs {
		tools[i] = Tool{Name: c.Name}
		if p, err := exec.LookPath(c.Name); err == nil {
			tools[i].Path = p
		}
	}
	return tools
}
