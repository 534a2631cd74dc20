package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arbee-network/arbee"
	arbeed "github.com/arbee-network/arbee/cmd/arbeed/app"
	"github.com/arbee-network/arbee/commands"
	"github.com/arbee-network/arbee/commands/server"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagLogLevel = "log_level"
)

func helpMessage() {
	fmt.Println("arbeed")
	fmt.Println("          Escrow and dispute arbitration ledger node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Check the app state of genesis files")
	fmt.Println("getblock  Extract a block from blockchain.db")
	fmt.Println("testgen   Write example encodings to a directory")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.arbee", env ARBEE_HOME)
  -log_level string
        tendermint log level filter (default "info", env ARBEE_LOG_LEVEL)`)
}

func main() {
	conf, err := server.LoadConfig()
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
	if conf.Home == "" {
		conf.Home = filepath.Join(os.ExpandEnv("$HOME"), ".arbee")
	}

	flag.StringVar(&conf.Home, flagHome, conf.Home, "directory to store files under")
	flag.StringVar(&conf.LogLevel, flagLogLevel, conf.LogLevel, "tendermint log level filter")
	flag.CommandLine.Usage = helpMessage
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
	arbee.DefaultLogger = logger

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(arbeed.GenInitOptions, logger, conf.Home, rest)
	case "start":
		err = server.StartCmd(arbeed.GenerateApp, logger, *conf, rest)
	case "validate":
		err = server.ValidateGenesis(arbeed.Initializers(), rest)
	case "getblock":
		err = server.GetBlockCmd(rest)
	case "testgen":
		err = commands.TestGenCmd(arbeed.Examples(), rest)
	case "version":
		fmt.Println(arbee.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "arbee")
	return flags.ParseLogLevel(level, logger, "info")
}
