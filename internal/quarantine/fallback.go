package quarantine

import (
	"encoding/json"
	"fmt"
	"os"
)

// FallbackLog appends quarantine entries as line-delimited JSON to a local
// file. It opens the file per write so a crashed run never holds the log
// open, and syncs after each append: this path only runs when the warehouse
// is already misbehaving, and losing the local copy too would be the one
// unrecoverable failure in the pipeline.
type FallbackLog struct {
	path string
}

// NewFallbackLog returns a fallback log writing to path.
func NewFallbackLog(path string) *FallbackLog {
	return &FallbackLog{path: path}
}

// Path returns the log's file path.
func (f *FallbackLog) Path() string {
	return f.path
}

// Append writes one entry as a JSON line.
func (f *FallbackLog) Append(e Entry) error {
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open fallback log: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode quarantine entry: %w", err)
	}
	line = append(line, '\n')

	if _, err := file.Write(line); err != nil {
		return fmt.Errorf("append to fallback log: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync fallback log: %w", err)
	}

	return nil
}
