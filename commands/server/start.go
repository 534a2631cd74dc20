package server

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/notify/amqp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"
)

func parseStartFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	startFlags.StringVar(&conf.Bind, flagBind, conf.Bind, "address server listens on")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	err := startFlags.Parse(args)
	return conf, err
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, notifier arbee.Notifier, debug bool) (abci.Application, error)

// StartCmd initializes the application, serves it over the ABCI socket
// and blocks until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, conf Config, args []string) error {
	conf, err := parseStartFlags(conf, args)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	notifier, closeNotifier := newNotifier(conf, logger)
	defer closeNotifier()

	app, err := gen(conf.Home, logger, notifier, conf.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(err, "cannot create listener on %s", conf.Bind)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	// Wait for a signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Stopping ABCI app", "signal", s.String())
	return svr.Stop()
}

// newNotifier returns the notifier configured by conf together with a
// function releasing it. Without a broker URI notifications are dropped.
func newNotifier(conf Config, logger log.Logger) (arbee.Notifier, func()) {
	if conf.AMQPURI == "" {
		return arbee.NopNotifier, func() {}
	}
	pub := amqp.NewPublisher(amqp.DialConnector(conf.AMQPURI), conf.AMQPExchange,
		amqp.WithLogger(logger.With("module", "amqp")),
		amqp.WithKeyPrefix(conf.AMQPKeyPrefix),
		amqp.WithQueueSize(conf.AMQPQueueSize),
		amqp.WithDrainTimeout(conf.AMQPDrainTimeout),
	)
	logger.Info("Publishing notifications", "exchange", conf.AMQPExchange)
	return pub, func() {
		if err := pub.Close(); err != nil {
			logger.Error("cannot close publisher", "err", err)
		}
	}
}
