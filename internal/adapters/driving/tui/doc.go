// Package tui holds the interactive terminal UI used to review snapshot
// mismatches.
//
// Subpackages:
//   - styles: colour theme shared with the CLI's result rendering
//   - keymap: keybindings
//   - review: the mismatch review model
package tui
