package main

import (
	"context"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grafana/cloudmetrics/logger"
	"github.com/grafana/cloudmetrics/publish"
	"github.com/grafana/cloudmetrics/publish/cloudwatch"
	"github.com/grafana/cloudmetrics/publish/kafka"
)

var (
	namespace          string
	metricName         string
	metrics            int
	aggIntervalStr     string
	publishIntervalStr string
	rate               int
	runForStr          string
	mean               float64
	stddev             float64
	hostsStr           string
	dcsStr             string
	logLevel           string

	toStdout     bool
	toDevnull    bool
	toCloudwatch bool
	kafkaTopic   string
	kafkaBrokers string
)

func init() {
	feedCmd.Flags().StringVar(&namespace, "namespace", "cm-feed", "namespace to publish under")
	feedCmd.Flags().StringVar(&metricName, "metricname", "some.fake.latency", "the metric name to use (a sequence number is appended when --metrics > 1)")
	feedCmd.Flags().IntVar(&metrics, "metrics", 1, "how many metrics to feed")
	feedCmd.Flags().StringVar(&aggIntervalStr, "agg-interval", "1min", "aggregation interval per metric")
	feedCmd.Flags().StringVar(&publishIntervalStr, "publish-interval", "1min", "how often queued points are shipped")
	feedCmd.Flags().IntVar(&rate, "rate", 100, "samples per second per metric")
	feedCmd.Flags().StringVar(&runForStr, "run-for", "0", "how long to feed before shutting down. 0 means until interrupted")
	feedCmd.Flags().Float64Var(&mean, "mean", 50, "mean of the sampled values")
	feedCmd.Flags().Float64Var(&stddev, "stddev", 10, "standard deviation of the sampled values")
	feedCmd.Flags().StringVar(&hostsStr, "hosts", "", "comma separated host dimension values (optional)")
	feedCmd.Flags().StringVar(&dcsStr, "dcs", "", "comma separated dc dimension values (optional)")
	feedCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level. panic|fatal|error|warning|info|debug")

	feedCmd.Flags().BoolVar(&toStdout, "stdout", false, "print each published point to stdout")
	feedCmd.Flags().BoolVar(&toDevnull, "devnull", false, "discard everything (load test the pipeline itself)")
	feedCmd.Flags().BoolVar(&toCloudwatch, "cloudwatch", false, "publish to AWS CloudWatch (credentials and region from the environment)")
	feedCmd.Flags().StringVar(&kafkaTopic, "kafka-topic", "cloudmetrics", "kafka topic to publish to")
	feedCmd.Flags().StringVar(&kafkaBrokers, "kafka-brokers", "", "comma separated kafka broker list. empty means no kafka output")

	formatter := &logger.TextFormatter{}
	formatter.TimestampFormat = "2006-01-02 15:04:05.000"
	log.SetFormatter(formatter)
}

var feedCmd = &cobra.Command{
	Use:   "cm-feed",
	Short: "feeds synthetic samples through a cloudmetrics pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			log.Fatalf("failed to parse log-level %q: %s", logLevel, err.Error())
		}
		log.SetLevel(lvl)

		dataFeed(getClient())
	},
}

// getClient assembles the backend from the output flags. multiple outputs
// fan out; none at all falls back to stdout so a bare invocation shows
// something.
func getClient() publish.Client {
	var clients []publish.Client
	if toStdout {
		clients = append(clients, publish.NewStdout())
	}
	if toDevnull {
		clients = append(clients, publish.DevNull{})
	}
	if kafkaBrokers != "" {
		k, err := kafka.New(kafkaTopic, strings.Split(kafkaBrokers, ","))
		if err != nil {
			log.Fatalf("failed to connect to kafka: %s", err.Error())
		}
		clients = append(clients, k)
	}
	if toCloudwatch {
		cw, err := cloudwatch.New(context.Background())
		if err != nil {
			log.Fatalf("failed to set up cloudwatch: %s", err.Error())
		}
		clients = append(clients, cw)
	}

	switch len(clients) {
	case 0:
		log.Info("no output selected, defaulting to stdout")
		return publish.NewStdout()
	case 1:
		return clients[0]
	default:
		return publish.NewFanOut(clients...)
	}
}

func main() {
	if err := feedCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
