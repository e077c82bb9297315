// Package logsink is the duty cycle's append-only record store: one mount,
// one append and one unmount per cycle on a FAT volume.
//
// A Volume backend does the medium work. The FAT-on-SD backend runs on the
// board; AferoVolume stands in for it on a host.
package logsink

import (
	"errors"
	"io"

	"envlogger-go/errcode"
	"envlogger-go/types"
	"envlogger-go/x/logx"
)

// Volume is a mountable filesystem holding the log file.
//
// Mount must report failures as errcode.E with one of MountFormatRequired,
// MountDeviceInit or MountBusInit. Only MountFormatRequired may lead to a
// Format call.
type Volume interface {
	Mount(cfg types.VolumeConfig) error
	Format(cfg types.VolumeConfig) error
	OpenAppend(name string) (io.WriteCloser, error)
	Unmount() error
}

// syncer is implemented by files that can flush to the medium before close.
type syncer interface{ Sync() error }

var (
	ErrInvalidHandle = errors.New("logsink: handle not mounted")
	ErrShortWrite    = errors.New("logsink: short write")
)

// Handle is a mounted volume. It is invalid after Unmount.
type Handle struct {
	cfg   types.VolumeConfig
	valid bool
}

func (h *Handle) Valid() bool { return h != nil && h.valid }

type Sink struct {
	vol Volume
	log *logx.Logger
}

func New(vol Volume, log *logx.Logger) *Sink {
	return &Sink{vol: vol, log: log}
}

// Mount mounts the volume. A medium without a filesystem is formatted and
// mounted again only when cfg.FormatIfMountFailed is set.
func (s *Sink) Mount(cfg types.VolumeConfig) (*Handle, error) {
	err := mountErr(s.vol.Mount(cfg))
	if errcode.Of(err) == errcode.MountFormatRequired && cfg.FormatIfMountFailed {
		s.log.Warn("no filesystem on", cfg.MountPoint, "formatting")
		if ferr := s.vol.Format(cfg); ferr != nil {
			return nil, errcode.Wrap(errcode.MountDeviceInit, "logsink.format", ferr)
		}
		err = mountErr(s.vol.Mount(cfg))
	}
	if err != nil {
		return nil, err
	}
	return &Handle{cfg: cfg, valid: true}, nil
}

// mountErr makes sure every mount failure carries a mount code.
func mountErr(err error) error {
	if err == nil || errcode.IsMount(errcode.Of(err)) {
		return err
	}
	return errcode.Wrap(errcode.MountDeviceInit, "logsink.mount", err)
}

// Append writes one whole record to the configured file. The file is opened
// in append-create mode, synced when possible and closed before returning.
func (s *Sink) Append(h *Handle, record string) error {
	const op = "logsink.append"
	if !h.Valid() {
		return errcode.Wrap(errcode.Write, op, ErrInvalidHandle)
	}
	f, err := s.vol.OpenAppend(h.cfg.FileName)
	if err != nil {
		return errcode.Wrap(errcode.Write, op, err)
	}
	n, err := io.WriteString(f, record)
	if err == nil && n != len(record) {
		err = ErrShortWrite
	}
	if err == nil {
		if sf, ok := f.(syncer); ok {
			err = sf.Sync()
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return errcode.Wrap(errcode.Write, op, err)
}

// Unmount releases the volume. The handle is invalid afterwards, even when
// the backend reports an error.
func (s *Sink) Unmount(h *Handle) error {
	if !h.Valid() {
		return ErrInvalidHandle
	}
	h.valid = false
	return s.vol.Unmount()
}
