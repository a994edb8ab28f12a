package trie

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/nspcc-dev/mptrie/cli/options"
	"github.com/nspcc-dev/mptrie/pkg/core/mpt"
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
	"github.com/nspcc-dev/mptrie/pkg/io"
	"github.com/urfave/cli"
)

func prove(ctx *cli.Context) error {
	args, err := parseArgs(ctx, 1)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	e, err := newEnv(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer e.close()

	_, proof, err := e.trie.GetProof(args[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	w := io.NewBufBinWriter()
	proof.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return cli.NewExitError(w.Err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(w.Bytes()))
	return nil
}

func verify(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 2 {
		return cli.NewExitError(fmt.Errorf("expected 2 arguments, got %d", len(args)), 1)
	}
	if ctx.String("root") == "" {
		return cli.NewExitError(errNoRoot, 1)
	}
	k, err := decodeArg(ctx, args[0])
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid key: %w", err), 1)
	}
	rawProof, err := hex.DecodeString(args[1])
	if err != nil {
		return cli.NewExitError(fmt.Errorf("invalid proof: %w", err), 1)
	}
	var proof mpt.ProofList
	r := io.NewBinReaderFromBuf(rawProof)
	proof.DecodeBinary(r)
	if r.Err != nil {
		return cli.NewExitError(fmt.Errorf("invalid proof: %w", r.Err), 1)
	}

	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	h, err := hash.ByName(cfg.ApplicationConfiguration.Trie.Hasher)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	root, err := getRoot(ctx, h)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	v, err := mpt.VerifyProof(root, k, proof, h)
	switch {
	case errors.Is(err, mpt.ErrKeyMismatch):
		return cli.NewExitError(fmt.Errorf("proof is for another key: %w", err), 1)
	case err != nil:
		return cli.NewExitError(err, 1)
	case v == nil:
		fmt.Fprintln(ctx.App.Writer, "key is absent")
	default:
		fmt.Fprintln(ctx.App.Writer, formatValue(ctx, v))
	}
	return nil
}
