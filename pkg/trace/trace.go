// Package trace records pose samples to bzip2-compressed JSON lines and reads them back.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"cogentcore.org/core/math32"
	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/navigatorx-ar/pkg/driver"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
)

type record struct {
	Camera [16]float32 `json:"camera"`
	Lat    float64     `json:"lat"`
	Lon    float64     `json:"lon"`
	Time   time.Time   `json:"time"`
}

func newRecord(s driver.Sample) record {
	return record{
		Camera: [16]float32(s.Camera),
		Lat:    s.Coordinate.Lat,
		Lon:    s.Coordinate.Lon,
		Time:   s.Time,
	}
}

func (r record) sample() driver.Sample {
	return driver.NewSample(math32.Matrix4(r.Camera), geo.NewCoordinate(r.Lat, r.Lon), r.Time)
}

type Recorder struct {
	mu     sync.Mutex
	file   *os.File
	bz     *bzip2.Writer
	w      *bufio.Writer
	enc    *json.Encoder
	count  int
	closed bool
}

// NewRecorder writes compressed samples to w. Close must be called to flush the stream.
func NewRecorder(w io.Writer) (*Recorder, error) {
	bz, err := bzip2.NewWriter(w, &bzip2.WriterConfig{})
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(bz)
	return &Recorder{
		bz:  bz,
		w:   bw,
		enc: json.NewEncoder(bw),
	}, nil
}

func Create(filename string) (*Recorder, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	rec, err := NewRecorder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rec.file = f
	return rec, nil
}

func (rec *Recorder) Record(s driver.Sample) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.closed {
		return errors.New("trace: record on closed recorder")
	}
	if err := rec.enc.Encode(newRecord(s)); err != nil {
		return err
	}
	rec.count++
	return nil
}

func (rec *Recorder) Count() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.count
}

func (rec *Recorder) Close() error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.closed {
		return nil
	}
	rec.closed = true

	err := rec.w.Flush()
	if cerr := rec.bz.Close(); err == nil {
		err = cerr
	}
	if rec.file != nil {
		if cerr := rec.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadAll decodes every sample of a compressed trace.
func ReadAll(r io.Reader) ([]driver.Sample, error) {
	bz, err := bzip2.NewReader(r, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	dec := json.NewDecoder(bufio.NewReader(bz))
	samples := make([]driver.Sample, 0, 64)
	for {
		var rec record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "trace: sample %d", len(samples))
		}
		samples = append(samples, rec.sample())
	}
	return samples, nil
}

func ReadFile(filename string) ([]driver.Sample, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f)
}
