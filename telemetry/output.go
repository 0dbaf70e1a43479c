// Package telemetry writes per-tick CSV logs of an offline run.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"

	"github.com/nstehr/vimy/arena-core/agent"
	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/substrate"
)

// csvFile is one output file, optionally zstd-compressed.
type csvFile struct {
	f             *os.File
	enc           *zstd.Encoder
	w             io.Writer
	headerWritten bool
}

func createCSV(path string, compress bool) (*csvFile, error) {
	if compress {
		path += ".zst"
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	c := &csvFile{f: f, w: f}
	if compress {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("zstd writer for %s: %w", filepath.Base(path), err)
		}
		c.enc, c.w = enc, enc
	}
	return c, nil
}

// write appends records; the first write includes the header row.
func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.w); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.w)
}

func (c *csvFile) close() error {
	var err error
	if c.enc != nil {
		err = c.enc.Close()
	}
	if cerr := c.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Recorder writes ticks.csv, orders.csv and events.csv into a directory.
// A nil Recorder discards everything, so callers need not check whether
// output is enabled.
type Recorder struct {
	dir    string
	ticks  *csvFile
	orders *csvFile
	events *csvFile
}

// NewRecorder creates dir and the CSV files inside it. Returns nil if dir is
// empty (output disabled).
func NewRecorder(dir string, compress bool) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	r := &Recorder{dir: dir}
	var err error
	if r.ticks, err = createCSV(filepath.Join(dir, "ticks.csv"), compress); err != nil {
		return nil, err
	}
	if r.orders, err = createCSV(filepath.Join(dir, "orders.csv"), compress); err != nil {
		_ = r.ticks.close()
		return nil, err
	}
	if r.events, err = createCSV(filepath.Join(dir, "events.csv"), compress); err != nil {
		_ = r.ticks.close()
		_ = r.orders.close()
		return nil, err
	}
	return r, nil
}

// WriteConfig saves the configuration the run used.
func (r *Recorder) WriteConfig(cfg *config.Config) error {
	if r == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(r.dir, "config.yaml"))
}

// Record writes one tick's report and the orders issued during it.
func (r *Recorder) Record(report agent.TickReport, orders []substrate.Order) error {
	if r == nil {
		return nil
	}
	if err := r.ticks.write([]TickRecord{tickRecord(report)}); err != nil {
		return fmt.Errorf("writing ticks: %w", err)
	}

	if len(orders) > 0 {
		rows := make([]OrderRecord, len(orders))
		for i, o := range orders {
			rows[i] = orderRecord(o)
		}
		if err := r.orders.write(rows); err != nil {
			return fmt.Errorf("writing orders: %w", err)
		}
	}

	if len(report.Events) > 0 {
		rows := make([]EventRecord, len(report.Events))
		for i, e := range report.Events {
			rows[i] = EventRecord{Tick: e.Tick, Kind: string(e.Kind), Detail: e.Detail}
		}
		if err := r.events.write(rows); err != nil {
			return fmt.Errorf("writing events: %w", err)
		}
	}
	return nil
}

// Close flushes and closes every file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	var first error
	for _, c := range []*csvFile{r.ticks, r.orders, r.events} {
		if err := c.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
