package ui

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"

	"github.com/atotto/clipboard"
)

// copyToClipboard uses the system clipboard and falls back to OSC52, which
// works over SSH in many terminals.
func copyToClipboard(s string) error {
	if err := clipboard.WriteAll(s); err == nil {
		return nil
	}
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	payload := fmt.Sprintf("\x1b]52;c;%s\x07", enc)
	// write to /dev/tty to avoid clobbering the app's stdout buffer
	f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(payload)
	return err
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
