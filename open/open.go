// Package open launches URLs with the system's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Start opens target without waiting for the handler to exit.
func Start(target string) error {
	cmd, ok := command(runtime.GOOS, target)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

func command(goos, target string) (*exec.Cmd, bool) {
	switch goos {
	case "windows":
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", target), true
	case "darwin":
		return exec.Command("open", target), true
	case "android":
		return exec.Command("termux-open", target), true
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", target), true
	default:
		return nil, false
	}
}
