package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"chamber/internal/driver"
)

// Run shows the progress model on out while work runs in its own goroutine.
// work receives a sink that feeds the model; the event channel is closed
// when work returns. Run returns work's error, or the UI error if the
// program failed.
func Run(out io.Writer, title string, files []string, work func(sink driver.ProgressSink) error) error {
	events := make(chan driver.ProgressEvent, 256)
	errCh := make(chan error, 1)

	go func() {
		err := work(driver.ChannelSink{Ch: events})
		close(events)
		errCh <- err
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out))
	_, uiErr := program.Run()
	// после Ctrl+C модель больше не читает канал; дочитываем его сами
	for range events {
	}
	workErr := <-errCh
	if uiErr != nil {
		return uiErr
	}
	return workErr
}
