package logsink

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"envlogger-go/errcode"
	"envlogger-go/types"
	"envlogger-go/x/logx"
)

// fakeVolume scripts mount results and records the calls it sees.
type fakeVolume struct {
	mountErrs []error
	formatErr error
	openErr   error
	limit     int // bytes accepted per write, 0 = all

	calls []string
	data  bytes.Buffer
}

func (v *fakeVolume) Mount(types.VolumeConfig) error {
	v.calls = append(v.calls, "mount")
	if len(v.mountErrs) == 0 {
		return nil
	}
	err := v.mountErrs[0]
	v.mountErrs = v.mountErrs[1:]
	return err
}

func (v *fakeVolume) Format(types.VolumeConfig) error {
	v.calls = append(v.calls, "format")
	return v.formatErr
}

func (v *fakeVolume) OpenAppend(name string) (io.WriteCloser, error) {
	v.calls = append(v.calls, "open "+name)
	if v.openErr != nil {
		return nil, v.openErr
	}
	return &fakeFile{v: v}, nil
}

func (v *fakeVolume) Unmount() error {
	v.calls = append(v.calls, "unmount")
	return nil
}

type fakeFile struct{ v *fakeVolume }

func (f *fakeFile) Write(p []byte) (int, error) {
	if f.v.limit > 0 && len(p) > f.v.limit {
		p = p[:f.v.limit]
	}
	return f.v.data.Write(p)
}

func (f *fakeFile) Sync() error {
	f.v.calls = append(f.v.calls, "sync")
	return nil
}

func (f *fakeFile) Close() error {
	f.v.calls = append(f.v.calls, "close")
	return nil
}

var vcfg = types.VolumeConfig{MountPoint: "/sdcard", FileName: "turb.txt", MaxOpenFiles: 5}

func eqCalls(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %v, want %v", got, want)
		}
	}
}

func TestAppendOpensWritesSyncsCloses(t *testing.T) {
	v := &fakeVolume{}
	s := New(v, logx.Discard())
	h, err := s.Mount(vcfg)
	if err != nil {
		t.Fatal(err)
	}
	rec := "2021-06-01 12:00:00, 21.50 deg Cel\n"
	if err := s.Append(h, rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(h, rec); err != nil {
		t.Fatal(err)
	}
	if err := s.Unmount(h); err != nil {
		t.Fatal(err)
	}
	eqCalls(t, v.calls, "mount",
		"open turb.txt", "sync", "close",
		"open turb.txt", "sync", "close",
		"unmount")
	if v.data.String() != rec+rec {
		t.Fatalf("data = %q", v.data.String())
	}
}

func TestShortWriteIsWriteError(t *testing.T) {
	v := &fakeVolume{limit: 4}
	s := New(v, logx.Discard())
	h, _ := s.Mount(vcfg)
	err := s.Append(h, "0000-00-00 00:00:00, nan deg Cel\n")
	if errcode.Of(err) != errcode.Write || !errors.Is(err, ErrShortWrite) {
		t.Fatalf("err = %v, want write/ErrShortWrite", err)
	}
	if v.calls[len(v.calls)-1] != "close" {
		t.Fatalf("file not closed after short write: %v", v.calls)
	}
}

func TestOpenFailureIsWriteError(t *testing.T) {
	v := &fakeVolume{openErr: errors.New("disk full")}
	s := New(v, logx.Discard())
	h, _ := s.Mount(vcfg)
	if err := s.Append(h, "x\n"); errcode.Of(err) != errcode.Write {
		t.Fatalf("err = %v, want write", err)
	}
}

func TestHandleInvalidAfterUnmount(t *testing.T) {
	v := &fakeVolume{}
	s := New(v, logx.Discard())
	h, _ := s.Mount(vcfg)
	_ = s.Unmount(h)
	if err := s.Append(h, "x\n"); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("append after unmount err = %v", err)
	}
	if err := s.Unmount(h); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("second unmount err = %v", err)
	}
	if err := s.Append(nil, "x\n"); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("append nil handle err = %v", err)
	}
}

func TestFormatOnlyWhenConfiguredAndRequired(t *testing.T) {
	needFS := errcode.New(errcode.MountFormatRequired, "fake", "no fs")

	// Not configured: surfaced, no format.
	v := &fakeVolume{mountErrs: []error{needFS}}
	if _, err := New(v, logx.Discard()).Mount(vcfg); errcode.Of(err) != errcode.MountFormatRequired {
		t.Fatalf("err = %v", err)
	}
	eqCalls(t, v.calls, "mount")

	// Configured: format then mount again.
	cfg := vcfg
	cfg.FormatIfMountFailed = true
	var out bytes.Buffer
	v = &fakeVolume{mountErrs: []error{needFS}}
	if _, err := New(v, logx.New(&out, "logsink")).Mount(cfg); err != nil {
		t.Fatalf("err = %v", err)
	}
	eqCalls(t, v.calls, "mount", "format", "mount")
	if out.Len() == 0 {
		t.Fatal("format not logged")
	}

	// Device init failures are never formatted.
	v = &fakeVolume{mountErrs: []error{errcode.New(errcode.MountDeviceInit, "fake", "no card")}}
	if _, err := New(v, logx.Discard()).Mount(cfg); errcode.Of(err) != errcode.MountDeviceInit {
		t.Fatalf("err = %v", err)
	}
	eqCalls(t, v.calls, "mount")
}

func TestUncodedMountErrorBecomesDeviceInit(t *testing.T) {
	v := &fakeVolume{mountErrs: []error{errors.New("spi timeout")}}
	if _, err := New(v, logx.Discard()).Mount(vcfg); errcode.Of(err) != errcode.MountDeviceInit {
		t.Fatalf("err = %v, want mount_device_init", err)
	}
}
