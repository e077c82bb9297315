//go:build !rp2040 && !rp2350

package power

import (
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"envlogger-go/errcode"
	"envlogger-go/types"
)

// FileStore keeps the WakeContext in a small YAML document, standing in for
// RTC-domain memory when the simulator runs as one process per wake.
type FileStore struct {
	fs   afero.Fs
	path string
}

type retainedDoc struct {
	SleepEnterMs int64 `yaml:"sleep_enter_ms"`
	Valid        bool  `yaml:"valid"`
}

func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Load reports false when the file is missing, unreadable or invalid, the
// same as a cold boot.
func (s *FileStore) Load() (types.WakeContext, bool) {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return types.WakeContext{}, false
	}
	var d retainedDoc
	if err := yaml.Unmarshal(b, &d); err != nil || !d.Valid {
		return types.WakeContext{}, false
	}
	return types.WakeContext{SleepEnterMs: d.SleepEnterMs, Valid: true}, true
}

func (s *FileStore) Save(wc types.WakeContext) error {
	b, err := yaml.Marshal(retainedDoc{SleepEnterMs: wc.SleepEnterMs, Valid: wc.Valid})
	if err != nil {
		return errcode.Wrap(errcode.Retained, "power.filestore.save", err)
	}
	return errcode.Wrap(errcode.Retained, "power.filestore.save", afero.WriteFile(s.fs, s.path, b, 0o644))
}

// Clear removes the file, as a cold boot loses retained memory.
func (s *FileStore) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
