// Package runlog persists one JSON line per pipeline run. The log file is
// the system's only durable state: publication streaks and promotional
// cooldowns are both reconstructed by scanning it, never cached elsewhere.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/africagold/goldintel/internal/models"
)

// Logger appends to and reads back a JSONL run log.
type Logger struct {
	path string
}

func New(path string) *Logger {
	return &Logger{path: path}
}

func (l *Logger) Path() string {
	return l.path
}

// Append writes one record as a single JSON line. Existing lines are never
// rewritten. A zero timestamp is stamped with the current time.
func (l *Logger) Append(rec models.RunRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append run record: %w", err)
	}
	return nil
}

// ReadAll returns every parseable record, oldest first. Lines that fail to
// parse are skipped so one corrupt entry cannot poison the history.
func (l *Logger) ReadAll() ([]models.RunRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	var records []models.RunRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec models.RunRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scan run log: %w", err)
	}
	return records, nil
}

// ReadWindow returns records newer than the given number of days, oldest
// first.
func (l *Logger) ReadWindow(days int) ([]models.RunRecord, error) {
	all, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var out []models.RunRecord
	for _, rec := range all {
		if rec.Timestamp.After(cutoff) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Recent returns at most n of the newest records, oldest first.
func (l *Logger) Recent(n int) ([]models.RunRecord, error) {
	all, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

// SuccessStreak counts consecutive SUCCESS records ending at the newest
// entry. Any other status breaks the streak immediately.
func SuccessStreak(records []models.RunRecord) int {
	streak := 0
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Status != models.StatusSuccess {
			break
		}
		streak++
	}
	return streak
}

// DaysSinceStrategy returns whole days since a successful run last carried
// the given monetization strategy, and false when no such run exists.
func DaysSinceStrategy(records []models.RunRecord, strategy models.Strategy, now time.Time) (int, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.Status != models.StatusSuccess {
			continue
		}
		if rec.UpsellStrategy == string(strategy) {
			return int(now.Sub(rec.Timestamp).Hours() / 24), true
		}
	}
	return 0, false
}
