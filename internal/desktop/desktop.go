// Package desktop hands work to the host desktop: opening a calendar link in
// the default browser and posting a system notification.
package desktop

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsafeLink is returned for links that are not absolute http(s) URLs.
var ErrUnsafeLink = errors.New("refusing to open link")

// runCommand is swapped out in tests.
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenURL opens link in the default browser without waiting for it to exit.
// Only absolute http and https URLs are handed to the host opener.
func OpenURL(link string) error {
	if err := checkLink(link); err != nil {
		return err
	}
	name, args := openCommand(runtime.GOOS, link)
	if name == "" {
		return fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
	}
	return runCommand(name, args...)
}

func checkLink(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrUnsafeLink, link, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w %q", ErrUnsafeLink, link)
	}
	return nil
}

func openCommand(goos, link string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{link}
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{link}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}
	default:
		return "", nil
	}
}

// Notify posts a system notification.
// On macOS, uses osascript. On Linux, uses notify-send if available.
// Other platforms are ignored.
func Notify(title, message string) error {
	name, args := notifyCommand(runtime.GOOS, title, message)
	if name == "" {
		return nil
	}
	return runCommand(name, args...)
}

func notifyCommand(goos, title, message string) (string, []string) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return "osascript", []string{"-e", script}
	case "linux":
		return "notify-send", []string{title, message}
	default:
		return "", nil
	}
}
