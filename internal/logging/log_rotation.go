package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultMaxLogSize = 10 << 20

// LogRotation moves an oversized log file aside before the logger opens it.
type LogRotation struct {
	maxSize int64
	now     func() time.Time
}

func NewLogRotation(maxSize int64) *LogRotation {
	return &LogRotation{maxSize: maxSize, now: time.Now}
}

func (lr *LogRotation) ShouldRotate(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() >= lr.maxSize
}

func (lr *LogRotation) Rotate(path string) (string, error) {
	newPath := TimestampedPath(path, lr.now().Format("20060102-150405"))
	if err := os.Rename(path, newPath); err != nil {
		return "", fmt.Errorf("rotate %s: %w", path, err)
	}
	return newPath, nil
}

// TimestampedPath inserts "-<stamp>" between the base name and extension.
func TimestampedPath(path, stamp string) string {
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	return fmt.Sprintf("%s-%s%s", base, stamp, ext)
}
