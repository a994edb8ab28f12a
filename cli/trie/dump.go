package trie

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nspcc-dev/mptrie/pkg/core/mpt"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// KVPair represents a key-value pair.
type KVPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TraverseMPT writes all key-value pairs of the trie to the encoder in key order.
func TraverseMPT(tr *mpt.Trie, encoder *json.Encoder) (int, error) {
	var (
		count  int
		encErr error
	)
	err := tr.Walk(func(k, v []byte) bool {
		kvPair := KVPair{
			Key:   hex.EncodeToString(k),
			Value: hex.EncodeToString(v),
		}
		if encErr = encoder.Encode(kvPair); encErr != nil {
			return false
		}
		count++
		return true
	})
	if err != nil {
		return count, err
	}
	if encErr != nil {
		return count, fmt.Errorf("error encoding key-value pair: %w", encErr)
	}
	return count, nil
}

func dump(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer e.close()

	var out io.Writer = ctx.App.Writer
	if outputFile := ctx.String("out"); outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("error creating file: %w", err), 1)
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	startTime := time.Now()
	count, err := TraverseMPT(e.trie, encoder)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	e.log.Info("key-value pairs dumped",
		zap.Int("count", count),
		zap.Duration("took", time.Since(startTime)))
	return nil
}
