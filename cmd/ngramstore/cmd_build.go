package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/ngramstore/compactngram/config"
	"github.com/ngramstore/compactngram/ngramstorage"
)

func newCmd_Build() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "build a compact n-gram store from a training-pairs file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "pairs",
				Aliases:  []string{"i"},
				Usage:    "path to the binary training-pairs file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "path to write the built store to",
				Required: true,
			},
		},
		Action: buildAction,
	}
}

func buildAction(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}
	_ = cfg // build-time cache capacity is chosen at query time, not build time

	pairsPath := cctx.String("pairs")
	outPath := cctx.String("out")

	klog.Infof("building %s from %s", outPath, pairsPath)
	if err := ngramstorage.BuildFile(pairsPath, outPath); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	klog.Infof("wrote %s", outPath)
	return nil
}
