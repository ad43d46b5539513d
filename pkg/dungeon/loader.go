package dungeon

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"nuggets-server/internal/domain"
	"nuggets-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Load читает файл карты. Любая ошибка здесь фатальна для старта сервера.
func Load(path string) (*domain.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrMapFormat, path, err)
	}
	defer f.Close()

	grid, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "map_loader",
		"path":      path,
		"width":     grid.Width,
		"height":    grid.Height,
	}).Info("Map loaded")
	return grid, nil
}

// Parse читает карту построчно. Все строки должны быть одной длины с первой.
// Допускается одна пустая строка в самом конце файла.
func Parse(r io.Reader) (*domain.Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var (
		cells  []byte
		width  int
		height int
		blank  bool // Встретили пустую строку: дальше допустим только EOF
	)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := bytes.TrimSuffix(scanner.Bytes(), []byte("\r"))

		if blank {
			return nil, fmt.Errorf("%w: line %d follows a blank line", domain.ErrMapFormat, lineNo)
		}
		if len(line) == 0 && height > 0 {
			blank = true
			continue
		}

		if height == 0 {
			width = len(line)
			if width == 0 {
				return nil, fmt.Errorf("%w: first line is empty", domain.ErrMapFormat)
			}
		}
		if len(line) != width {
			return nil, fmt.Errorf("%w: line %d has length %d, want %d",
				domain.ErrMapFormat, lineNo, len(line), width)
		}

		cells = append(cells, line...)
		height++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read: %v", domain.ErrMapFormat, err)
	}
	if height == 0 {
		return nil, fmt.Errorf("%w: map is empty", domain.ErrMapFormat)
	}

	grid := domain.NewGrid(width, height, cells)
	if len(grid.RoomFloorIndexes(grid.Cells)) == 0 {
		return nil, fmt.Errorf("%w: map has no room floor", domain.ErrMapFormat)
	}
	return grid, nil
}

// Format - карта построчно, в формате файла
func Format(g *domain.Grid) string {
	out := make([]byte, 0, len(g.Cells)+g.Height)
	for y := 0; y < g.Height; y++ {
		out = append(out, g.Cells[y*g.Width:(y+1)*g.Width]...)
		out = append(out, '\n')
	}
	return string(out)
}
