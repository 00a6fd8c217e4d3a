// Package cloudmetrics aggregates sampled values in-process and periodically
// publishes them as batched statistics to a remote metrics backend.
//
// High-frequency samples (request latencies, sizes, counts) are folded
// lock-free into a running count/sum/min/max per metric. On each metric's
// aggregation interval the statistic is converted to data points and queued;
// on the pipeline's publish interval all queued points are drained, batched
// per namespace and handed to the backend client. Delivery is best-effort:
// failed batches are logged and dropped, never retried.
//
//	cw, err := cloudwatch.New(ctx)
//	if err != nil {
//		...
//	}
//	p := cloudmetrics.New(cw)
//	defer p.Shutdown()
//
//	latency, err := p.Start(agg.NewBuilder().
//		WithNamespace("app").WithSubNamespace("web").
//		WithName("request.latency").
//		WithUnit(schema.UnitMilliseconds).
//		WithDimensions(schema.Dimension{Name: "host", Value: hostname}))
//	if err != nil {
//		...
//	}
//
//	latency.SampleDuration(took) // from any goroutine, never blocks
package cloudmetrics
