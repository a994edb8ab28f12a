package trie

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/nspcc-dev/mptrie/cli/options"
	"github.com/nspcc-dev/mptrie/pkg/core/mpt"
	"github.com/nspcc-dev/mptrie/pkg/core/storage"
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	rootFlag = cli.StringFlag{
		Name:  "root, r",
		Usage: "hex-encoded root digest of the trie version to use (empty trie if not set)",
	}
	hexFlag = cli.BoolFlag{
		Name:  "hex",
		Usage: "keys and values are hex-encoded",
	}
	outFlag = cli.StringFlag{
		Name:  "out, o",
		Usage: "output file (stdout if not set)",
	}
)

var errNoRoot = errors.New("no root specified, use '--root' flag")

// NewCommands returns 'trie' command.
func NewCommands() []cli.Command {
	flags := append([]cli.Flag{rootFlag, hexFlag}, options.Common...)
	return []cli.Command{{
		Name:  "trie",
		Usage: "Operate on a persistent Merkle Patricia Trie",
		Subcommands: []cli.Command{
			{
				Name:      "put",
				Usage:     "Put key-value pair and commit, new root is printed",
				UsageText: "mptrie trie put [--root <digest>] [--hex] [--config-file <file>] <key> <value>",
				Action:    put,
				Flags:     flags,
			},
			{
				Name:      "get",
				Usage:     "Print value stored by key",
				UsageText: "mptrie trie get --root <digest> [--hex] [--config-file <file>] <key>",
				Action:    get,
				Flags:     flags,
			},
			{
				Name:      "delete",
				Usage:     "Delete key and commit, new root is printed",
				UsageText: "mptrie trie delete --root <digest> [--hex] [--config-file <file>] <key>",
				Action:    remove,
				Flags:     flags,
			},
			{
				Name:      "prove",
				Usage:     "Print hex-encoded proof for the key",
				UsageText: "mptrie trie prove --root <digest> [--hex] [--config-file <file>] <key>",
				Action:    prove,
				Flags:     flags,
			},
			{
				Name:      "verify",
				Usage:     "Verify proof for the key against the root, no store is used",
				UsageText: "mptrie trie verify --root <digest> [--hex] [--config-file <file>] <key> <proof>",
				Action:    verify,
				Flags:     flags,
			},
			{
				Name:      "dump",
				Usage:     "Dump all key-value pairs as JSON",
				UsageText: "mptrie trie dump --root <digest> [--out <file>] [--config-file <file>]",
				Action:    dump,
				Flags:     append(flags, outFlag),
			},
		},
	}}
}

// env holds everything a trie command needs.
type env struct {
	log   *zap.Logger
	cache *storage.MemCachedStore
	trie  *mpt.Trie
}

func newEnv(ctx *cli.Context) (*env, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, err
	}
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return nil, err
	}
	h, err := hash.ByName(cfg.ApplicationConfiguration.Trie.Hasher)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return nil, fmt.Errorf("could not initialize storage: %w", err)
	}
	e := &env{
		log:   log,
		cache: storage.NewMemCachedStore(store),
	}
	tcfg := mpt.Config{
		Store:         e.cache,
		Hasher:        h,
		NodeCacheSize: cfg.ApplicationConfiguration.Trie.NodeCacheSize,
		Log:           log,
	}
	root, err := getRoot(ctx, h)
	if err != nil {
		e.close()
		return nil, err
	}
	e.trie, err = mpt.NewTrieFromRoot(root, tcfg)
	if err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

// getRoot returns the root given in the context, empty trie root by default.
func getRoot(ctx *cli.Context, h hash.Hasher) (hash.Digest, error) {
	s := ctx.String("root")
	if s == "" {
		return mpt.EmptyRoot(h), nil
	}
	root, err := hash.DigestFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid root: %w", err)
	}
	return root, nil
}

// commit commits the trie and persists all new nodes in one batch.
func (e *env) commit(ctx *cli.Context) error {
	root, err := e.trie.Commit()
	if err != nil {
		return err
	}
	n, err := e.cache.Persist()
	if err != nil {
		return fmt.Errorf("failed to persist trie nodes: %w", err)
	}
	e.log.Debug("trie nodes persisted", zap.Int("keys", n))
	fmt.Fprintln(ctx.App.Writer, root)
	return nil
}

func (e *env) close() {
	if err := e.cache.Close(); err != nil {
		e.log.Error("failed to close the store", zap.Error(err))
	}
	_ = e.log.Sync()
}

// parseArgs returns exactly n positional arguments decoded according to the
// --hex flag.
func parseArgs(ctx *cli.Context, n int) ([][]byte, error) {
	args := ctx.Args()
	if len(args) != n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	res := make([][]byte, n)
	for i := range args {
		b, err := decodeArg(ctx, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		res[i] = b
	}
	return res, nil
}

// decodeArg converts key or value argument to bytes.
func decodeArg(ctx *cli.Context, s string) ([]byte, error) {
	if ctx.Bool("hex") {
		return hex.DecodeString(s)
	}
	return []byte(s), nil
}

func formatValue(ctx *cli.Context, v []byte) string {
	if ctx.Bool("hex") {
		return hex.EncodeToString(v)
	}
	return string(v)
}

func put(ctx *cli.Context) error {
	args, err := parseArgs(ctx, 2)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	e, err := newEnv(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer e.close()

	if err := e.trie.Put(args[0], args[1]); err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := e.commit(ctx); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func get(ctx *cli.Context) error {
	args, err := parseArgs(ctx, 1)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	e, err := newEnv(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer e.close()

	v, err := e.trie.Get(args[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if v == nil {
		return cli.NewExitError("key not found", 1)
	}
	fmt.Fprintln(ctx.App.Writer, formatValue(ctx, v))
	return nil
}

func remove(ctx *cli.Context) error {
	args, err := parseArgs(ctx, 1)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	e, err := newEnv(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer e.close()

	removed, err := e.trie.Delete(args[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !removed {
		return cli.NewExitError("key not found", 1)
	}
	if err := e.commit(ctx); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}
