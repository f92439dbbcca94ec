// logger.go

package signsimilarity

import (
	"os"

	"github.com/baditaflorin/l"
)

// createDefaultLogger creates and returns a default logger instance.
func createDefaultLogger() (l.Logger, error) {
	return l.NewStandardFactory().CreateLogger(l.Config{
		Output:     os.Stderr,
		JsonFormat: false,
		AddSource:  true,
	})
}
