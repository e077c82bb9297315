package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"envlogger-go/services/logsink"
	"envlogger-go/types"
)

// summary is what check reports about a log file.
type summary struct {
	Records     int
	Malformed   []int // 1-based line numbers
	NoTime      int
	NoTemp      int
	OutOfOrder  []int // lines whose time is before the previous timed record
	First, Last time.Time
	Min, Max    types.CentiCelsius
	haveTemp    bool
}

func (s *summary) OK() bool { return len(s.Malformed) == 0 && len(s.OutOfOrder) == 0 }

var errCheckFailed = errors.New("log check failed")

func newCheckCmd(fs afero.Fs) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a log file: format, placeholders and record order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fs.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			s, err := scan(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			s.print(cmd.OutOrStdout())
			if !s.OK() {
				return errCheckFailed
			}
			return nil
		},
	}
}

func scan(r io.Reader) (*summary, error) {
	s := &summary{}
	var prev time.Time
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if line == "" {
			continue
		}
		rec, err := logsink.ParseRecord(line)
		if err != nil {
			s.Malformed = append(s.Malformed, n)
			continue
		}
		s.Records++
		if rec.TimeOK {
			if !prev.IsZero() && rec.Time.Before(prev) {
				s.OutOfOrder = append(s.OutOfOrder, n)
			}
			if s.First.IsZero() {
				s.First = rec.Time
			}
			s.Last, prev = rec.Time, rec.Time
		} else {
			s.NoTime++
		}
		if rec.TempOK {
			if !s.haveTemp || rec.Temp < s.Min {
				s.Min = rec.Temp
			}
			if !s.haveTemp || rec.Temp > s.Max {
				s.Max = rec.Temp
			}
			s.haveTemp = true
		} else {
			s.NoTemp++
		}
	}
	return s, sc.Err()
}

func (s *summary) print(w io.Writer) {
	const stamp = "2006-01-02 15:04:05"
	fmt.Fprintf(w, "records:      %d\n", s.Records)
	if !s.First.IsZero() {
		fmt.Fprintf(w, "span:         %s .. %s\n", s.First.Format(stamp), s.Last.Format(stamp))
	}
	if s.haveTemp {
		fmt.Fprintf(w, "temperature:  %s .. %s deg Cel\n", s.Min, s.Max)
	}
	fmt.Fprintf(w, "placeholders: %d time, %d temp\n", s.NoTime, s.NoTemp)
	if len(s.Malformed) > 0 {
		fmt.Fprintf(w, "malformed:    lines %v\n", s.Malformed)
	}
	if len(s.OutOfOrder) > 0 {
		fmt.Fprintf(w, "out of order: lines %v\n", s.OutOfOrder)
	}
}
