// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for batch reuploads:
//  1. [ItemListView] : Review the assets queued for migration
//  2. [ConfirmView] : Confirm the batch before any network traffic
//  3. [RunView] : Monitor real-time per-item progress updates
//  4. [ResultView] : Browse per-item outcomes, failures included
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ReuploadEngine, providing
// non-blocking status reporting while the batch runs in a goroutine.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
