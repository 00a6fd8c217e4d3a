package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/raintank/dur"
	log "github.com/sirupsen/logrus"

	"github.com/grafana/cloudmetrics"
	"github.com/grafana/cloudmetrics/agg"
	"github.com/grafana/cloudmetrics/clock"
	"github.com/grafana/cloudmetrics/publish"
	"github.com/grafana/cloudmetrics/schema"
)

// dimensionSets builds the dimension grid out of the --hosts and --dcs flags.
func dimensionSets() [][]schema.Dimension {
	var axes [][]schema.Dimension
	if hostsStr != "" {
		var axis []schema.Dimension
		for _, h := range strings.Split(hostsStr, ",") {
			axis = append(axis, schema.Dimension{Name: "host", Value: h})
		}
		axes = append(axes, axis)
	}
	if dcsStr != "" {
		var axis []schema.Dimension
		for _, dc := range strings.Split(dcsStr, ",") {
			axis = append(axis, schema.Dimension{Name: "dc", Value: dc})
		}
		axes = append(axes, axis)
	}
	return schema.Combinations(axes...)
}

func dataFeed(client publish.Client) {
	aggInterval := time.Duration(dur.MustParseNDuration("agg-interval", aggIntervalStr)) * time.Second
	publishInterval := time.Duration(dur.MustParseNDuration("publish-interval", publishIntervalStr)) * time.Second
	var runFor time.Duration
	if runForStr != "0" {
		runFor = time.Duration(dur.MustParseNDuration("run-for", runForStr)) * time.Second
	}

	pipe := cloudmetrics.New(client, cloudmetrics.WithPublishInterval(publishInterval))

	template := agg.NewBuilder().
		WithNamespace(namespace).
		WithUnit(schema.UnitMilliseconds).
		WithInterval(aggInterval)
	for _, dims := range dimensionSets() {
		template = template.WithDimensions(dims...)
	}

	var aggs []*agg.Aggregator
	for i := 0; i < metrics; i++ {
		name := metricName
		if metrics > 1 {
			name = fmt.Sprintf("%s.%d", metricName, i)
		}
		a, err := pipe.Start(template.WithName(name))
		if err != nil {
			log.Fatalf("failed to start aggregator %s: %s", name, err.Error())
		}
		aggs = append(aggs, a)
	}
	log.Infof("feeding %d metrics at %d samples/s each into namespace %s", len(aggs), rate, namespace)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var deadline <-chan time.Time
	if runFor > 0 {
		deadline = time.After(runFor)
	}

	tick := clock.AlignedTick(time.Second)
	sampled := 0
	for {
		select {
		case sig := <-sigChan:
			log.Infof("received signal %s, shutting down", sig)
			pipe.Shutdown()
			return
		case <-deadline:
			log.Infof("done after %s and %d samples, shutting down", runFor, sampled)
			pipe.Shutdown()
			return
		case <-tick:
			for _, a := range aggs {
				for i := 0; i < rate; i++ {
					a.Sample(mean + rand.NormFloat64()*stddev)
				}
				sampled += rate
			}
			log.Debugf("fed %d samples so far", sampled)
		}
	}
}
