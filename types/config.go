package types

import "time"

// Config is the static configuration consumed by a duty cycle. Boards supply
// it at build time; the host simulator may load it from YAML.
type Config struct {
	Board string `yaml:"board"`

	I2C     I2CPlan     `yaml:"i2c"`
	SPI     SPIPlan     `yaml:"spi"`
	Console ConsolePlan `yaml:"console"`

	RTCAddress uint16 `yaml:"rtc_address"`

	// IntPin is the GPIO wired to DS3231 INT/SQW (open drain, active low),
	// or -1 when INT only gates board power.
	IntPin int `yaml:"int_pin"`

	// WakePeriod is the nominal time between scheduled wakes.
	WakePeriod time.Duration `yaml:"wake_period"`

	// FallbackTimer arms the MCU wake timer alongside the RTC alarm.
	FallbackTimer time.Duration `yaml:"fallback_timer"`
	AlarmID       AlarmID       `yaml:"alarm_id"`
	AlarmRate     string        `yaml:"alarm_rate"`

	// BackupSquareWave sets BBSQW so the alarm can fire on the coin cell.
	BackupSquareWave bool `yaml:"backup_square_wave"`

	Volume VolumeConfig `yaml:"volume"`

	// LeakagePins are isolated from external pull networks before sleep.
	LeakagePins []int `yaml:"leakage_pins"`

	Delays Delays `yaml:"delays"`
	Policy Policy `yaml:"policy"`
}

type I2CPlan struct {
	ID  string `yaml:"id"`
	SDA int    `yaml:"sda"`
	SCL int    `yaml:"scl"`
	Hz  uint32 `yaml:"hz"`
}

type SPIPlan struct {
	ID  string `yaml:"id"`
	SCK int    `yaml:"sck"`
	SDO int    `yaml:"sdo"` // MOSI
	SDI int    `yaml:"sdi"` // MISO
	CS  int    `yaml:"cs"`
	Hz  uint32 `yaml:"hz"`
}

// ConsolePlan selects the diagnostic output. An empty UART means USB serial.
type ConsolePlan struct {
	UART string `yaml:"uart"`
	TX   int    `yaml:"tx"`
	RX   int    `yaml:"rx"`
	Baud uint32 `yaml:"baud"`
}

// VolumeConfig describes the log volume and file.
type VolumeConfig struct {
	MountPoint          string `yaml:"mount_point"`
	FileName            string `yaml:"file_name"`
	MaxOpenFiles        int    `yaml:"max_open_files"`
	AllocationUnit      int    `yaml:"allocation_unit"`
	FormatIfMountFailed bool   `yaml:"format_if_mount_failed"`
}

// Delays are the fixed settle waits of a cycle.
type Delays struct {
	BootSettle       time.Duration `yaml:"boot_settle"`
	BusSettle        time.Duration `yaml:"bus_settle"`
	StoragePowerDown time.Duration `yaml:"storage_power_down"`
	PreSleep         time.Duration `yaml:"pre_sleep"`
}

// ReadFailure selects what happens to the record when half of a sample is
// missing.
type ReadFailure string

const (
	// FailureSkip appends nothing this cycle.
	FailureSkip ReadFailure = "skip"
	// FailurePlaceholder appends a record with a placeholder field.
	FailurePlaceholder ReadFailure = "placeholder"
)

type Policy struct {
	OnTimeReadFailure ReadFailure `yaml:"on_time_read_failure"`
	OnTempReadFailure ReadFailure `yaml:"on_temp_read_failure"`
}

// DefaultConfig mirrors the field-deployed logger: alarm 2 every minute, a
// 90 s fallback timer, turb.txt on a FAT card at /sdcard.
func DefaultConfig() Config {
	return Config{
		Board:            "default",
		I2C:              I2CPlan{ID: "i2c0", SDA: 4, SCL: 5, Hz: 400_000},
		SPI:              SPIPlan{ID: "spi1", SCK: 14, SDO: 15, SDI: 12, CS: 13, Hz: 4_000_000},
		RTCAddress:       0x68,
		IntPin:           -1,
		WakePeriod:       60 * time.Second,
		FallbackTimer:    90 * time.Second,
		AlarmID:          Alarm2,
		AlarmRate:        RateEveryMinute.String(),
		BackupSquareWave: true,
		Volume: VolumeConfig{
			MountPoint:     "/sdcard",
			FileName:       "turb.txt",
			MaxOpenFiles:   5,
			AllocationUnit: 16 * 1024,
		},
		Delays: Delays{
			BootSettle:       2 * time.Second,
			BusSettle:        250 * time.Millisecond,
			StoragePowerDown: 1 * time.Second,
			PreSleep:         1 * time.Second,
		},
		Policy: Policy{
			OnTimeReadFailure: FailureSkip,
			OnTempReadFailure: FailurePlaceholder,
		},
	}
}
