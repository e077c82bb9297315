//go:build rp2040 || rp2350

package logsink

import (
	"errors"
	"io"
	"machine"
	"os"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"

	"envlogger-go/errcode"
	"envlogger-go/types"
)

// FATVolume is the log volume on an SD card in SPI mode. The card and the
// SPI bus are brought up on every Mount since storage power is cut between
// cycles.
type FATVolume struct {
	spi  *machine.SPI
	plan types.SPIPlan

	sd sdcard.Device
	fs *fatfs.FATFS

	mounted bool
	open    int
	max     int
}

func NewFATVolume(spi *machine.SPI, plan types.SPIPlan) *FATVolume {
	return &FATVolume{spi: spi, plan: plan}
}

func (v *FATVolume) init() error {
	const op = "fat.init"
	err := v.spi.Configure(machine.SPIConfig{
		Frequency: v.plan.Hz,
		SCK:       machine.Pin(v.plan.SCK),
		SDO:       machine.Pin(v.plan.SDO),
		SDI:       machine.Pin(v.plan.SDI),
	})
	if err != nil {
		return errcode.Wrap(errcode.MountBusInit, op, err)
	}
	v.sd = sdcard.New(v.spi, machine.Pin(v.plan.SCK), machine.Pin(v.plan.SDO), machine.Pin(v.plan.SDI), machine.Pin(v.plan.CS))
	if err := v.sd.Configure(); err != nil {
		return errcode.Wrap(errcode.MountDeviceInit, op, err)
	}
	v.fs = fatfs.New(&v.sd)
	v.fs.Configure(&fatfs.Config{SectorSize: 512})
	return nil
}

func (v *FATVolume) Mount(cfg types.VolumeConfig) error {
	if err := v.init(); err != nil {
		return err
	}
	if err := v.fs.Mount(); err != nil {
		var fr fatfs.FileResult
		if errors.As(err, &fr) && fr == fatfs.FileResultNoFilesystem {
			return errcode.Wrap(errcode.MountFormatRequired, "fat.mount", err)
		}
		return errcode.Wrap(errcode.MountDeviceInit, "fat.mount", err)
	}
	v.mounted, v.open, v.max = true, 0, cfg.MaxOpenFiles
	return nil
}

// Format writes a fresh FAT filesystem. The allocation unit is fixed by the
// fatfs build; cfg.AllocationUnit is advisory here.
func (v *FATVolume) Format(cfg types.VolumeConfig) error {
	if v.fs == nil {
		if err := v.init(); err != nil {
			return err
		}
	}
	return v.fs.Format()
}

func (v *FATVolume) OpenAppend(name string) (io.WriteCloser, error) {
	if !v.mounted {
		return nil, errors.New("fat: not mounted")
	}
	if v.max > 0 && v.open >= v.max {
		return nil, errors.New("fat: too many open files")
	}
	f, err := v.fs.OpenFile("/"+name, os.O_WRONLY|os.O_APPEND|os.O_CREATE)
	if err != nil {
		return nil, err
	}
	v.open++
	return &fatFile{WriteCloser: f, vol: v}, nil
}

func (v *FATVolume) Unmount() error {
	if !v.mounted {
		return errors.New("fat: not mounted")
	}
	v.mounted = false
	return v.fs.Unmount()
}

// fatFile counts open handles. FAT flushes on Close.
type fatFile struct {
	io.WriteCloser
	vol *FATVolume
}

func (f *fatFile) Close() error {
	f.vol.open--
	return f.WriteCloser.Close()
}
