package utils

import (
	"io"

	"github.com/MrSnakeDoc/tabas/internal/logger"
)

// CloseLogged closes c and logs a failure under what.
func CloseLogged(c io.Closer, log logger.Logger, what string) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("what", what), logger.Error(err))
	}
}
