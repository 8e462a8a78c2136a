package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScratchDir stages decoded utterances on disk for file-based STT clients.
type ScratchDir struct {
	dir string
}

func NewScratchDir(dir string) *ScratchDir {
	return &ScratchDir{dir: dir}
}

func (s *ScratchDir) Path() string {
	return s.dir
}

// Ensure creates the directory if it does not exist.
func (s *ScratchDir) Ensure() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	return nil
}

// Stage writes data to a uniquely named file. Concurrent calls never collide.
func (s *ScratchDir) Stage(data []byte) (*StagedFile, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%d-%s.wav", time.Now().UnixNano(), uuid.NewString())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write staged audio: %w", err)
	}
	return &StagedFile{Path: path}, nil
}

// StagedFile is removed by the first Release call; later calls are no-ops.
type StagedFile struct {
	Path string

	once sync.Once
	err  error
}

func (f *StagedFile) Release() error {
	f.once.Do(func() {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.err = err
		}
	})
	return f.err
}
