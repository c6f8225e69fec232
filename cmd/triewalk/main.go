// triewalk builds a trie from a set of key=value pairs and walks it with
// the package trie iterator, printing each yielded node's path and variant.
// It exists to exercise New/Next/Seek end to end; the spec's iterator core
// never needs a command-line surface of its own.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/jaiminpan/triewalk/accdb/memorydb"
	"github.com/jaiminpan/triewalk/internal/xlog"
	"github.com/jaiminpan/triewalk/kvstore"
	"github.com/jaiminpan/triewalk/rlpcodec"
	"github.com/jaiminpan/triewalk/trie"
	"github.com/jaiminpan/triewalk/triebuild"
)

var (
	version   string
	gitCommit string

	flags = []cli.Flag{
		cli.StringFlag{
			Name:  "pairs",
			Usage: "path to a file of key=value lines, one pair per line",
		},
		cli.StringSliceFlag{
			Name:  "kv",
			Usage: "an inline key=value pair; may be repeated",
		},
		cli.StringFlag{
			Name:  "layout",
			Value: "extension",
			Usage: "wire layout: extension or nibbled",
		},
		cli.StringFlag{
			Name:  "seek",
			Usage: "hex-encoded key to seek to before walking",
		},
		cli.IntFlag{
			Name:  "verbosity",
			Value: int(xlog.LevelInfo),
			Usage: "log verbosity (0=debug .. 3=error)",
		},
	}
)

func run(ctx *cli.Context) error {
	xlog.SetDefault(xlog.New(os.Stderr, xlog.Level(ctx.Int("verbosity"))))

	layout, err := parseLayout(ctx.String("layout"))
	if err != nil {
		return errors.Wrap(err, "-layout")
	}

	entries, err := loadEntries(ctx.String("pairs"), ctx.StringSlice("kv"))
	if err != nil {
		return errors.Wrap(err, "loading key=value pairs")
	}

	store := kvstore.NewHashNodeStore(memorydb.New())
	root, err := triebuild.Build(entries, layout, store)
	if err != nil {
		return errors.Wrap(err, "building trie")
	}
	xlog.Info("built trie", "entries", len(entries), "layout", ctx.String("layout"))

	view := &trie.BasicTrieView{Store: store, RootRef: root}
	it, err := trie.New(view, layout)
	if err != nil {
		return errors.Wrap(err, "opening iterator")
	}

	if seekHex := ctx.String("seek"); seekHex != "" {
		key, err := hex.DecodeString(seekHex)
		if err != nil {
			return errors.Wrap(err, "-seek")
		}
		if err := it.Seek(key); err != nil {
			return errors.Wrap(err, "seek")
		}
	}

	return dump(it)
}

func dump(it *trie.Iterator) error {
	for {
		path, node, ok, err := it.Next()
		if err != nil {
			return errors.Wrap(err, "iterator")
		}
		if !ok {
			return nil
		}
		fmt.Printf("%-20s %s\n", path.String(), describe(node))
	}
}

func describe(node trie.Node) string {
	switch n := node.(type) {
	case trie.EmptyNode:
		return "Empty"
	case *trie.LeafNode:
		return fmt.Sprintf("Leaf(partial=%s, value=%q)", n.Partial.String(), n.Value)
	case *trie.ExtensionNode:
		return fmt.Sprintf("Extension(partial=%s)", n.Partial.String())
	case *trie.BranchNode:
		return fmt.Sprintf("Branch(value=%q)", n.Value)
	case *trie.NibbledBranchNode:
		return fmt.Sprintf("NibbledBranch(partial=%s, value=%q)", n.Partial.String(), n.Value)
	default:
		return "Unknown"
	}
}

func parseLayout(name string) (trie.Layout, error) {
	switch name {
	case "extension":
		return rlpcodec.ExtensionLayout, nil
	case "nibbled":
		return rlpcodec.NibbledBranchLayout, nil
	default:
		return trie.Layout{}, errors.Errorf("unknown layout %q (want extension or nibbled)", name)
	}
}

func loadEntries(pairsFile string, inline []string) ([]triebuild.Entry, error) {
	var lines []string
	if pairsFile != "" {
		f, err := os.Open(pairsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	lines = append(lines, inline...)

	entries := make([]triebuild.Entry, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("malformed pair %q, want key=value", line)
		}
		entries = append(entries, triebuild.Entry{Key: []byte(parts[0]), Value: []byte(parts[1])})
	}
	return entries, nil
}

func main() {
	app := cli.App{
		Version: fmt.Sprintf("%s-%s", version, gitCommit),
		Name:    "triewalk",
		Usage:   "build a trie from key=value pairs and walk it",
		Flags:   flags,
		Action:  run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
