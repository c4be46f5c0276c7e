package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// runWatch runs the script once, then watches it for write events and
// re-runs it on every change until the process is interrupted. Ordinary
// file runs and the REPL never touch fsnotify.
func runWatch(path string, debug bool, stdout io.Writer) int {
	exitCode := runFile(path, stdout)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
		return exitCode
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", dir, err)
		return exitCode
	}

	target, err := filepath.Abs(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving %s: %v\n", path, err)
		return exitCode
	}

	for event := range watcher.Events {
		eventPath, err := filepath.Abs(event.Name)
		if err != nil || eventPath != target {
			continue
		}
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			continue
		}
		if debug {
			log.Printf("lox: %s changed, re-running", path)
		}
		fmt.Fprintln(stdout, "--- re-running", path, "---")
		exitCode = runFile(path, stdout)
	}
	return exitCode
}
