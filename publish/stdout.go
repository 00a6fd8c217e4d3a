package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/grafana/cloudmetrics/schema"
)

// Stdout writes every point as one line, for debugging and local runs.
type Stdout struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStdout() *Stdout {
	return &Stdout{w: os.Stdout}
}

func (s *Stdout) PutMetricData(_ context.Context, namespace string, points []schema.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		var err error
		if p.Stats != nil {
			_, err = fmt.Fprintf(s.w, "%s %s%s count=%g sum=%g min=%g max=%g unit=%s %d\n",
				namespace, p.Name, formatDims(p.Dimensions),
				p.Stats.SampleCount, p.Stats.Sum, p.Stats.Minimum, p.Stats.Maximum,
				p.Unit, p.Timestamp.Unix())
		} else {
			_, err = fmt.Fprintf(s.w, "%s %s%s value=%g unit=%s %d\n",
				namespace, p.Name, formatDims(p.Dimensions), p.Value, p.Unit, p.Timestamp.Unix())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Stdout) Close() error {
	return nil
}

func formatDims(dims []schema.Dimension) string {
	if len(dims) == 0 {
		return ""
	}
	str := "{"
	for i, d := range dims {
		if i > 0 {
			str += ","
		}
		str += d.Name + "=" + d.Value
	}
	return str + "}"
}

// DevNull discards everything. Useful as a placeholder when publishing is
// not enabled.
type DevNull struct{}

func (DevNull) PutMetricData(context.Context, string, []schema.Point) error {
	return nil
}

func (DevNull) Close() error {
	return nil
}
