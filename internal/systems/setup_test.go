package systems

import (
	"os"
	"testing"

	"nuggets-server/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

// parseRows склеивает строки карты в плоский буфер
func parseRows(rows ...string) ([]byte, int, int) {
	w := len(rows[0])
	buf := make([]byte, 0, w*len(rows))
	for _, r := range rows {
		buf = append(buf, r...)
	}
	return buf, w, len(rows)
}
