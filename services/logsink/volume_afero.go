//go:build !rp2040 && !rp2350

package logsink

import (
	"errors"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"

	"envlogger-go/errcode"
	"envlogger-go/types"
)

var (
	ErrNotMounted     = errors.New("logsink: volume not mounted")
	ErrTooManyFiles   = errors.New("logsink: too many open files")
	ErrAlreadyMounted = errors.New("logsink: volume already mounted")
)

// AferoVolume is a Volume on an afero filesystem. The mount point directory
// plays the part of the FAT filesystem: when it is missing the medium needs
// formatting. BusFault and DeviceFault make the next Mount fail the way a
// dead SPI bus or an unresponsive card would.
type AferoVolume struct {
	fs afero.Fs

	BusFault    error
	DeviceFault error

	cfg     types.VolumeConfig
	mounted bool
	open    int
}

func NewAferoVolume(fs afero.Fs) *AferoVolume { return &AferoVolume{fs: fs} }

func (v *AferoVolume) Fs() afero.Fs { return v.fs }

func (v *AferoVolume) Mount(cfg types.VolumeConfig) error {
	const op = "afero.mount"
	if v.mounted {
		return errcode.Wrap(errcode.MountDeviceInit, op, ErrAlreadyMounted)
	}
	if v.BusFault != nil {
		return errcode.Wrap(errcode.MountBusInit, op, v.BusFault)
	}
	if v.DeviceFault != nil {
		return errcode.Wrap(errcode.MountDeviceInit, op, v.DeviceFault)
	}
	ok, err := afero.DirExists(v.fs, cfg.MountPoint)
	if err != nil {
		return errcode.Wrap(errcode.MountDeviceInit, op, err)
	}
	if !ok {
		return errcode.New(errcode.MountFormatRequired, op, "no filesystem at "+cfg.MountPoint)
	}
	v.cfg, v.mounted, v.open = cfg, true, 0
	return nil
}

// Format creates an empty filesystem: the mount point directory, emptied.
func (v *AferoVolume) Format(cfg types.VolumeConfig) error {
	if v.mounted {
		return ErrAlreadyMounted
	}
	if err := v.fs.RemoveAll(cfg.MountPoint); err != nil {
		return err
	}
	return v.fs.MkdirAll(cfg.MountPoint, 0o755)
}

func (v *AferoVolume) OpenAppend(name string) (io.WriteCloser, error) {
	if !v.mounted {
		return nil, ErrNotMounted
	}
	if v.cfg.MaxOpenFiles > 0 && v.open >= v.cfg.MaxOpenFiles {
		return nil, ErrTooManyFiles
	}
	f, err := v.fs.OpenFile(path.Join(v.cfg.MountPoint, name), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	v.open++
	return &aferoFile{File: f, vol: v}, nil
}

func (v *AferoVolume) Unmount() error {
	if !v.mounted {
		return ErrNotMounted
	}
	v.mounted = false
	return nil
}

// Mounted reports whether the volume is mounted and how many files are open.
func (v *AferoVolume) Mounted() (bool, int) { return v.mounted, v.open }

type aferoFile struct {
	afero.File
	vol    *AferoVolume
	closed bool
}

func (f *aferoFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	f.vol.open--
	return f.File.Close()
}
