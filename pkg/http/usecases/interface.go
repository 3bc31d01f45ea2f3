package usecases

import "github.com/lintang-b-s/navigatorx-ar/pkg/driver"

type SampleRecorder interface {
	Record(s driver.Sample) error
	Close() error
}
