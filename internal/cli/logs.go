package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/amebalabs/KefirCLI/internal/logging"
)

var (
	logsLines  int
	logsFollow bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the log file",
	Long: `Prints the last lines of the kefirctl log file.

Commands log to a file under the config directory so terminal output
stays clean. Use --follow to stream new lines as they are written.`,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 20, "Number of lines to show")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Stream new lines as they arrive")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	if logsFollow && JSONOutput() {
		return fmt.Errorf("--follow cannot be combined with --json")
	}

	path := logging.Path(cfg.Log)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if JSONOutput() {
			return printJSON(map[string]interface{}{"path": path, "exists": false})
		}
		fmt.Printf("No log file yet at %s\n", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}

	lines, size, err := lastLines(path, logsLines)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"path":       path,
			"size_bytes": info.Size(),
			"lines":      lines,
		})
	}

	fmt.Printf("%s (%s)\n\n", path, humanize.Bytes(uint64(info.Size())))
	for _, line := range lines {
		fmt.Println(line)
	}

	if !logsFollow {
		return nil
	}
	return followLog(path, size)
}

// lastLines returns up to n trailing lines of the file and its size in bytes.
func lastLines(path string, n int) ([]string, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, int64(len(data)), nil
}

// followLog streams lines appended to the log file until interrupted.
func followLog(path string, offset int64) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch log file: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch log file: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				if next, err := dumpFrom(path, offset); err == nil {
					offset = next
				}
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// Rotated away. Re-add and start from the top when the
				// file reappears.
				offset = 0
				_ = watcher.Add(path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch log file: %w", err)
		}
	}
}

// dumpFrom prints file contents from offset onward and returns the new
// offset. A file shorter than the offset was truncated; print it whole.
func dumpFrom(path string, offset int64) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return offset, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return offset, err
	}
	if info.Size() < offset {
		offset = 0
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, err
	}
	n, err := io.Copy(os.Stdout, f)
	return offset + n, err
}
