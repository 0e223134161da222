// Package util desktop helpers for the local deployment.
package util

import (
	"os/exec"
	"runtime"
)

// browserCommand command that hands url to the desktop default browser.
func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// fallbackCommands alternatives tried when the default command cannot start.
func fallbackCommands(goos, url string) []*exec.Cmd {
	switch goos {
	case "windows":
		return []*exec.Cmd{exec.Command("explorer", url)}
	case "linux":
		var cmds []*exec.Cmd
		for _, b := range []string{"sensible-browser", "firefox", "google-chrome", "chromium-browser"} {
			cmds = append(cmds, exec.Command(b, url))
		}
		return cmds
	}
	return nil
}

// OpenBrowser opens url without waiting for the browser to exit.
func OpenBrowser(url string) error {
	err := browserCommand(runtime.GOOS, url).Start()
	if err == nil {
		return nil
	}
	for _, cmd := range fallbackCommands(runtime.GOOS, url) {
		if cmd.Start() == nil {
			return nil
		}
	}
	return err
}
