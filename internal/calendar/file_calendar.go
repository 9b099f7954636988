package calendar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/username/vacation-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar reads holidays from a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
	}
}

// Name implements Source
func (fc *FileCalendar) Name() string {
	return "file:" + fc.filePath
}

// Holidays loads holidays from the file
func (fc *FileCalendar) Holidays() ([]Holiday, error) {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	holidays, err := fc.parse(file)
	if err != nil {
		return nil, err
	}

	fc.logger.Info("Holiday file loaded",
		zap.String("file", fc.filePath),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

// parse reads lines of the form
//
//	YYYY-MM-DD [note]
//	2025-05-01 Día del Trabajador
//
// Blank lines and lines starting with # are ignored. Unparseable lines are logged and skipped.
func (fc *FileCalendar) parse(r io.Reader) ([]Holiday, error) {
	var holidays []Holiday

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		date, err := dateutil.ParseDate(parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse holiday date",
				zap.String("line", line),
				zap.Error(err))
			continue
		}

		note := ""
		if len(parts) == 2 {
			note = strings.TrimSpace(parts[1])
		}

		holidays = append(holidays, Holiday{Date: date, Note: note})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading holiday file: %w", err)
	}

	return holidays, nil
}
