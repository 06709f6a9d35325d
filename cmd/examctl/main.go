package main

import (
	"os"

	"github.com/yigit/examcraft/internal/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("examctl failed")
		os.Exit(1)
	}
}
