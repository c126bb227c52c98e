package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/ngramstore/compactngram/config"
)

func newCmd_Serve() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "expose Prometheus metrics over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "address to listen on, overrides the config file's metrics_addr",
			},
		},
		Action: serveAction,
	}
}

func serveAction(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	addr := cctx.String("addr")
	if addr == "" {
		addr = cfg.MetricsAddr
	}
	if addr == "" {
		return fmt.Errorf("serve: no metrics address given (pass --addr or set metrics_addr)")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	klog.Infof("serving metrics on %s", addr)
	return http.ListenAndServe(addr, mux)
}
