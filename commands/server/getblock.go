package server

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arbee-network/arbee/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

const (
	flagHeight = "height"
)

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

func parseGetBlockArgs(args []string) (string, int64, error) {
	if len(args) == 0 {
		return "", 0, errors.Wrap(errors.ErrInvalidInput, "usage: cmd getblock <path to blockstore.db> [-height=H]")
	}
	var height int64
	getBlockFlags := flag.NewFlagSet("getblock", flag.ExitOnError)
	getBlockFlags.Int64Var(&height, flagHeight, 0, "height of the block to extract (default latest)")
	err := getBlockFlags.Parse(args[1:])
	return args[0], height, err
}

// GetBlockCmd extracts a block from a blockstore.db and outputs as json
// It takes the last block unless -height is explicitly specified
// It writes the json to stdout
func GetBlockCmd(args []string) error {
	dbPath, height, err := parseGetBlockArgs(args)
	if err != nil {
		return err
	}
	db, err := openDb(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := blockchain.NewBlockStore(db)
	if height == 0 {
		height = store.Height()
	}
	js, err := blockJSON(store, height)
	if err != nil {
		return err
	}
	fmt.Println(string(js))
	return nil
}

func openDb(path string) (dbm.DB, error) {
	path = strings.TrimSuffix(filepath.Clean(path), string(filepath.Separator))
	if filepath.Ext(path) != ".db" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "database directory must end with .db")
	}
	dir, name := filepath.Split(strings.TrimSuffix(path, ".db"))
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return db, nil
}

func blockJSON(store *blockchain.BlockStore, height int64) ([]byte, error) {
	block := store.LoadBlock(height)
	if block == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no block for height: %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return js, nil
}
