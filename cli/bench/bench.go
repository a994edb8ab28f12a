package bench

import (
	"fmt"
	"time"

	"github.com/nspcc-dev/mptrie/cli/options"
	"github.com/nspcc-dev/mptrie/internal/random"
	"github.com/nspcc-dev/mptrie/pkg/config"
	"github.com/nspcc-dev/mptrie/pkg/core/mpt"
	"github.com/nspcc-dev/mptrie/pkg/core/storage"
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
	"github.com/nspcc-dev/mptrie/pkg/services/metrics"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// getIterations is the number of lookups done by the get case.
const getIterations = 100000

// NewCommands returns 'bench' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:      "bench",
		Usage:     "Measure trie operations on random UUID data",
		UsageText: "mptrie bench [--count <n>] [--config-file <file>] [--debug]",
		Action:    runBench,
		Flags: append([]cli.Flag{
			cli.IntFlag{
				Name:  "count, n",
				Value: 10000,
				Usage: "number of key-value pairs for bulk cases",
			},
		}, options.Common...),
	}}
}

// Result is a single benchmark case outcome.
type Result struct {
	Name string
	Ops  int
	Took time.Duration
}

func runBench(ctx *cli.Context) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	n := ctx.Int("count")
	if n <= 0 {
		return cli.NewExitError(fmt.Errorf("invalid count %d", n), 1)
	}

	prometheus := metrics.NewPrometheusService(cfg.ApplicationConfiguration.Prometheus, log)
	pprof := metrics.NewPprofService(cfg.ApplicationConfiguration.Pprof, log)
	prometheus.Start()
	pprof.Start()
	defer prometheus.ShutDown()
	defer pprof.ShutDown()

	results, err := Run(cfg.ApplicationConfiguration, n, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, r := range results {
		fmt.Fprintf(ctx.App.Writer, "%-16s %8d ops %14s %12s/op\n", r.Name, r.Ops, r.Took, r.Took/time.Duration(r.Ops))
	}
	return nil
}

// Run executes all benchmark cases with n pairs, the commit case writes into
// the configured store.
func Run(cfg config.ApplicationConfiguration, n int, log *zap.Logger) ([]Result, error) {
	h, err := hash.ByName(cfg.Trie.Hasher)
	if err != nil {
		return nil, err
	}
	newTrie := func(st storage.Store) *mpt.Trie {
		return mpt.NewTrie(mpt.Config{
			Store:         st,
			Hasher:        h,
			NodeCacheSize: cfg.Trie.NodeCacheSize,
			Log:           log,
		})
	}
	keys, values := random.UUIDPairs(n)
	var results []Result
	measure := func(name string, ops int, f func() error) error {
		start := time.Now()
		if err := f(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		r := Result{Name: name, Ops: ops, Took: time.Since(start)}
		log.Info("benchmark case done", zap.String("case", name), zap.Int("ops", ops), zap.Duration("took", r.Took))
		results = append(results, r)
		return nil
	}

	tr := newTrie(nil)
	if err := measure("insert one", 1, func() error {
		k, v := random.UUIDPairs(1)
		return tr.Put(k[0], v[0])
	}); err != nil {
		return nil, err
	}

	tr = newTrie(nil)
	if err := measure("insert", n, func() error {
		for i := range keys {
			if err := tr.Put(keys[i], values[i]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := measure("get", getIterations, func() error {
		k := keys[len(keys)/2]
		for i := 0; i < getIterations; i++ {
			v, err := tr.Get(k)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("key %x is missing", k)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := measure("remove", n, func() error {
		for i := range keys {
			if _, err := tr.Delete(keys[i]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.DBConfiguration)
	if err != nil {
		return nil, fmt.Errorf("could not initialize storage: %w", err)
	}
	defer store.Close()
	cache := storage.NewMemCachedStore(store)
	tr = newTrie(cache)
	for i := range keys {
		if err := tr.Put(keys[i], values[i]); err != nil {
			return nil, err
		}
	}
	if err := measure("commit", n, func() error {
		if _, err := tr.Commit(); err != nil {
			return err
		}
		_, err := cache.Persist()
		return err
	}); err != nil {
		return nil, err
	}
	return results, nil
}
