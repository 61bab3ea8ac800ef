package app

import (
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// Spawner starts argv without waiting for it to finish.
type Spawner func(argv []string) error

// execSpawner runs argv directly, without a shell, and reaps it in the
// background.
func execSpawner(logger zerolog.Logger) Spawner {
	return func(argv []string) error {
		if len(argv) == 0 {
			return ErrEmptyCommand
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start %s: %w", argv[0], err)
		}
		pid := cmd.Process.Pid
		go func() {
			err := cmd.Wait()
			ev := logger.Debug()
			if err != nil {
				ev = logger.Warn().Err(err)
			}
			ev.Str("command", argv[0]).Int("pid", pid).Msg("command exited")
		}()
		return nil
	}
}
