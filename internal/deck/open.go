package deck

import (
	"fmt"
	"os/exec"
	"runtime"
)

// launcher starts the command that opens a file; swapped in tests.
var launcher = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenFile opens path with the operating system's default application.
func OpenFile(path string) error {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = launcher("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		err = launcher("open", path)
	case "linux", "freebsd", "openbsd", "netbsd":
		err = launcher("xdg-open", path)
	default:
		return fmt.Errorf("opening files is not supported on %s", runtime.GOOS)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}
