package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxHistorySize = 1000

// History keeps the shell's past commands, oldest first, and persists them
// to a plain text file with one command per line.
type History struct {
	commands []string
	file     string // empty disables persistence
}

// defaultHistoryPath returns ~/.bloomy_history.
func defaultHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bloomy_history"), nil
}

func newHistory(path string) (*History, error) {
	h := &History{
		commands: make([]string, 0, maxHistorySize),
		file:     path,
	}
	if path == "" {
		return h, nil
	}

	if err := h.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return h, nil
}

func (h *History) load() error {
	f, err := os.Open(h.file)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		h.add(scanner.Text())
	}
	return scanner.Err()
}

func (h *History) add(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}

	// Don't add duplicates of the last command
	if n := len(h.commands); n > 0 && h.commands[n-1] == cmd {
		return
	}

	h.commands = append(h.commands, cmd)
	if len(h.commands) > maxHistorySize {
		h.commands = h.commands[len(h.commands)-maxHistorySize:]
	}
}

// save writes the history next to the target and renames it into place.
func (h *History) save() error {
	if h.file == "" {
		return nil
	}

	tmp := h.file + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, cmd := range h.commands {
		if _, err := fmt.Fprintln(w, cmd); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, h.file)
}

// list returns the last n commands, or all of them when n is out of range.
func (h *History) list(n int) []string {
	if n <= 0 || n > len(h.commands) {
		n = len(h.commands)
	}
	return h.commands[len(h.commands)-n:]
}
