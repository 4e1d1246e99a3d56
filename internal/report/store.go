package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-redis/redis/v8"
)

// ErrNoReport means no artifact has been written yet.
var ErrNoReport = errors.New("no report artifact")

// Store holds the single report artifact. Write replaces it wholesale.
type Store interface {
	Write(ctx context.Context, text string) error
	Read(ctx context.Context) (string, error)
	Name() string
}

// ReadDailyReport returns the stored report text or the Unavailable placeholder.
func ReadDailyReport(ctx context.Context, store Store) string {
	text, err := store.Read(ctx)
	if err != nil {
		return Unavailable
	}
	return text
}

// FileStore keeps the artifact in a plain UTF-8 text file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (s *FileStore) Name() string { return "file:" + s.Path }

// Write replaces the file through a temp file and rename so readers never
// observe a half-written report.
func (s *FileStore) Write(_ context.Context, text string) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp report: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

func (s *FileStore) Read(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoReport
		}
		return "", fmt.Errorf("read report: %w", err)
	}
	return string(data), nil
}

// RedisStore keeps the artifact under a single key.
type RedisStore struct {
	Rdb *redis.Client
	Key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{Rdb: rdb, Key: key}
}

func (s *RedisStore) Name() string { return "redis:" + s.Key }

func (s *RedisStore) Write(ctx context.Context, text string) error {
	if err := s.Rdb.Set(ctx, s.Key, text, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.Key, err)
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context) (string, error) {
	text, err := s.Rdb.Get(ctx, s.Key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoReport
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", s.Key, err)
	}
	return text, nil
}
