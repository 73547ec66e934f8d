package main

import (
	"fmt"

	"github.com/rookgb/dmgboy/pkg/utils"
)

// loadROM reads path, transparently decompressing it if it is a
// .zip, .gz or .7z archive rather than a raw .gb/.gbc image. Archive
// extraction lives in pkg/utils, shared with any future tool that
// needs to read a ROM from disk.
func loadROM(path string) ([]byte, error) {
	data, err := utils.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rom: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("load rom: %s is empty", path)
	}
	return data, nil
}

// pickROM opens a native file picker when the program is started
// without a ROM path, rather than printing a usage message and
// exiting.
func pickROM() (string, error) {
	return utils.AskForFile("Select a Game Boy ROM", "")
}
