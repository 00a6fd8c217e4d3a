package publish

import (
	"context"

	"github.com/grafana/cloudmetrics/schema"
)

type multiErr struct {
	errors []error
}

func (me multiErr) Return() error {
	if len(me.errors) != 0 {
		return me
	}
	return nil
}

func (me multiErr) Error() string {
	var str string
	for i, e := range me.errors {
		if i > 0 {
			str += "\n"
		}
		str += e.Error()
	}
	return str
}

// FanOut delivers every batch to several clients. A failing client does not
// stop delivery to the others; all failures are reported together.
type FanOut struct {
	clients []Client
}

func NewFanOut(clients ...Client) FanOut {
	return FanOut{clients: clients}
}

func (f FanOut) PutMetricData(ctx context.Context, namespace string, points []schema.Point) error {
	var retErr multiErr
	for _, c := range f.clients {
		if err := c.PutMetricData(ctx, namespace, points); err != nil {
			retErr.errors = append(retErr.errors, err)
		}
	}
	return retErr.Return()
}

func (f FanOut) Close() error {
	var retErr multiErr
	for _, c := range f.clients {
		if err := c.Close(); err != nil {
			retErr.errors = append(retErr.errors, err)
		}
	}
	return retErr.Return()
}
