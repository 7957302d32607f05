package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"editcore/internal/text"
)

// IBus D-Bus names.
const (
	IBusService               = "org.freedesktop.IBus"
	IBusPath                  = "/org/freedesktop/IBus"
	IBusInterface             = "org.freedesktop.IBus"
	IBusInputContextInterface = "org.freedesktop.IBus.InputContext"
	IBusServiceInterface      = "org.freedesktop.IBus.Service"
	IBusClientName            = "editcore"
)

// IBus client capabilities.
const (
	IBusCapPreeditText     uint32 = 1 << 0
	IBusCapFocus           uint32 = 1 << 3
	IBusCapSurroundingText uint32 = 1 << 5
)

// IBus key event state masks.
const (
	IBusShiftMask   uint32 = 1 << 0
	IBusLockMask    uint32 = 1 << 1
	IBusControlMask uint32 = 1 << 2
	IBusMod1Mask    uint32 = 1 << 3 // Alt
	IBusMod4Mask    uint32 = 1 << 6 // Super
	IBusReleaseMask uint32 = 1 << 30
)

// IBus input purposes.
const (
	ibusPurposeFreeForm uint32 = 0
	ibusPurposeNumber   uint32 = 3
	ibusPurposePhone    uint32 = 4
	ibusPurposeURL      uint32 = 5
	ibusPurposeEmail    uint32 = 6
	ibusPurposePassword uint32 = 8
	ibusPurposePin      uint32 = 9
)

// IBus input hints.
const (
	ibusHintSpellcheck         uint32 = 1 << 0
	ibusHintNoSpellcheck       uint32 = 1 << 1
	ibusHintUppercaseChars     uint32 = 1 << 4
	ibusHintUppercaseWords     uint32 = 1 << 5
	ibusHintUppercaseSentences uint32 = 1 << 6
)

// ibusContentType maps options to the purpose and hints passed to
// SetContentType.
func ibusContentType(opts ImeOptions) (purpose, hints uint32) {
	switch opts.KeyboardType {
	case KeyboardNumber, KeyboardDecimal:
		purpose = ibusPurposeNumber
	case KeyboardPhone:
		purpose = ibusPurposePhone
	case KeyboardURI:
		purpose = ibusPurposeURL
	case KeyboardEmail:
		purpose = ibusPurposeEmail
	case KeyboardPassword:
		purpose = ibusPurposePassword
	case KeyboardNumberPassword:
		purpose = ibusPurposePin
	default:
		purpose = ibusPurposeFreeForm
	}

	if opts.AutoCorrect {
		hints |= ibusHintSpellcheck
	} else {
		hints |= ibusHintNoSpellcheck
	}
	switch opts.Capitalization {
	case CapitalizeCharacters:
		hints |= ibusHintUppercaseChars
	case CapitalizeWords:
		hints |= ibusHintUppercaseWords
	case CapitalizeSentences:
		hints |= ibusHintUppercaseSentences
	}
	return purpose, hints
}

// ibusDeleteSurrounding converts IBus's DeleteSurroundingText(offset,
// nchars), which deletes nchars characters starting at cursor+offset, into
// commands. sel is the selection last reported to IBus; its end is the
// cursor. A range that does not touch the cursor is deleted by moving the
// selection there and back.
func ibusDeleteSurrounding(offset int32, nchars uint32, sel text.TextRange) []text.EditCommand {
	off, n := int(offset), int(nchars)
	if n == 0 {
		return nil
	}
	if off <= 0 && off+n >= 0 {
		return []text.EditCommand{text.DeleteSurroundingTextInCodePoints{Before: -off, After: off + n}}
	}

	cursor := sel.End
	start := max(cursor+off, 0)
	end := max(cursor+off+n, 0)
	if end <= start {
		return nil
	}
	removed := end - start
	shift := func(p int) int {
		switch {
		case p >= end:
			return p - removed
		case p > start:
			return start
		}
		return p
	}
	return []text.EditCommand{
		text.SetSelection{Start: start, End: start},
		text.DeleteSurroundingTextInCodePoints{After: removed},
		text.SetSelection{Start: shift(sel.Start), End: shift(sel.End)},
	}
}

// IBusAddress returns the address of the IBus daemon: IBUS_ADDRESS if set,
// else the address recorded in the per-display file under
// ~/.config/ibus/bus.
func IBusAddress() (string, error) {
	if addr := os.Getenv("IBUS_ADDRESS"); addr != "" {
		return addr, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
		}
		configHome = filepath.Join(home, ".config")
	}

	machineID, err := readMachineID()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}

	host, display := parseDisplay(os.Getenv("DISPLAY"))
	name := fmt.Sprintf("%s-%s-%s", machineID, host, display)
	f, err := os.Open(filepath.Join(configHome, "ibus", "bus", name))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	defer f.Close()
	return parseIBusAddressFile(f)
}

func readMachineID() (string, error) {
	for _, p := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
		if data, err := os.ReadFile(p); err == nil {
			return strings.TrimSpace(string(data)), nil
		}
	}
	return "", fmt.Errorf("machine id not found")
}

// parseDisplay splits DISPLAY ("host:N.screen") into host and display
// number, the way IBus names its address files.
func parseDisplay(display string) (host, number string) {
	host, number = "unix", "0"
	if display == "" {
		return host, number
	}
	h, rest, ok := strings.Cut(display, ":")
	if !ok {
		return host, number
	}
	if h != "" {
		host = h
	}
	if n, _, _ := strings.Cut(rest, "."); n != "" {
		number = n
	}
	return host, number
}

func parseIBusAddressFile(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if addr, ok := strings.CutPrefix(line, "IBUS_ADDRESS="); ok && addr != "" {
			return addr, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: no IBUS_ADDRESS in address file", ErrBridgeUnavailable)
}
