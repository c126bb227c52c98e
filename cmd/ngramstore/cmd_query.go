package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ngramstore/compactngram/config"
	"github.com/ngramstore/compactngram/ngramstorage"
)

func newCmd_Query() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "look up ngram_count, continuations_count and unique_continuations_count for a prefix",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "store",
				Aliases:  []string{"s"},
				Usage:    "path to a built store file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "comma-separated word ids, e.g. '1,2,3'; empty for the empty n-gram",
			},
		},
		Action: queryAction,
	}
}

func queryAction(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	storePath := cctx.String("store")
	f, err := os.Open(storePath)
	if err != nil {
		return fmt.Errorf("query: open %s: %w", storePath, err)
	}
	defer f.Close()

	store, err := ngramstorage.Load(f, cfg.CacheCapacity())
	if err != nil {
		return fmt.Errorf("query: load %s: %w", storePath, err)
	}

	prefix, err := parsePrefix(cctx.String("prefix"))
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	fmt.Printf("ngram_count=%d continuations_count=%d unique_continuations_count=%d\n",
		store.GetNgramCount(prefix),
		store.GetContinuationsCount(prefix),
		store.GetUniqueContinuationsCount(prefix))
	return nil
}

func parsePrefix(raw string) ([]uint32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	words := make([]uint32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid word id %q: %w", p, err)
		}
		words[i] = uint32(v)
	}
	return words, nil
}
