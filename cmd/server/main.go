package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"nuggets-server/internal/agent"
	"nuggets-server/internal/domain"
	"nuggets-server/internal/engine"
	"nuggets-server/internal/infrastructure/storage"
	"nuggets-server/internal/network"
	"nuggets-server/internal/server"
	"nuggets-server/internal/version"
	"nuggets-server/pkg/dungeon"
	"nuggets-server/pkg/logger"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// envConfig - окружение процесса
type envConfig struct {
	UDPAddr   string  `env:"NUGGETS_UDP_ADDR"   envDefault:":0"`
	HTTPAddr  string  `env:"NUGGETS_HTTP_ADDR"`
	RecordDir string  `env:"NUGGETS_RECORD_DIR"`
	RateLimit float64 `env:"NUGGETS_RATE_LIMIT" envDefault:"50"`
	RateBurst int     `env:"NUGGETS_RATE_BURST" envDefault:"20"`

	Bots     int           `env:"NUGGETS_BOTS"`
	BotThink time.Duration `env:"NUGGETS_BOT_THINK" envDefault:"250ms"`
}

const inboundBuffer = 256

func init() {
	logger.Init()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger.Log.Info(version.String())

	grid, err := dungeon.Load(opts.MapFile)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load map")
		fmt.Fprintln(stderr, err)
		return 1
	}

	if opts.ReplayFile != "" {
		return replay(grid, opts, stdout, stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, grid, opts, cfg, stdin, stdout); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error")
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// serve поднимает транспорты и крутит игровой цикл до конца партии
func serve(ctx context.Context, grid *domain.Grid, opts options, cfg envConfig, stdin io.Reader, stdout io.Writer) error {
	world, err := engine.NewWorld(grid, opts.Rules)
	if err != nil {
		return err
	}

	router := network.NewRouter(inboundBuffer)
	udp, err := network.ListenUDP(cfg.UDPAddr, cfg.RateLimit, cfg.RateBurst)
	if err != nil {
		return err
	}
	defer udp.Close()
	router.Register(udp)

	service := engine.NewService(world, router)

	var record *domain.GameRecord
	if cfg.RecordDir != "" {
		record = &domain.GameRecord{
			SessionID: uuid.New().String(),
			Seed:      world.Seed,
			GoldTotal: opts.Rules.GoldTotal,
			MinPiles:  opts.Rules.MinPiles,
			MaxPiles:  opts.Rules.MaxPiles,
			Plain:     opts.Rules.Plain,
			Timestamp: time.Now().Unix(),
			MapName:   filepath.Base(opts.MapFile),
		}
		service.SetRecorder(engine.NewGameRecorder(record))
	}

	control := make(chan string)
	loop := engine.NewLoop(service, router.Inbound(), control)

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := udp.Serve(loopCtx, router); err != nil {
			logger.Log.WithError(err).Error("UDP transport stopped")
		}
	}()

	if cfg.HTTPAddr != "" {
		srv := server.New(cfg.HTTPAddr, router, loop.Status)
		go func() {
			if err := srv.Run(loopCtx); err != nil {
				logger.Log.WithError(err).Error("HTTP server stopped")
			}
		}()
	}

	go readControl(loopCtx, stdin, control)

	if cfg.Bots > 0 {
		agent.NewPool().Start(loopCtx, router, cfg.Bots, world.Seed, cfg.BotThink)
	}

	logger.Log.WithField("port", udp.Port()).Info("Ready to play")
	fmt.Fprintf(stdout, "Ready to play, waiting at port %d\n", udp.Port())

	err = loop.Run(loopCtx)
	if errors.Is(err, context.Canceled) {
		logger.Log.Info("Shutting down...")
		err = nil
	}

	if record != nil {
		if saveErr := saveRecord(cfg.RecordDir, record); saveErr != nil {
			logger.Log.WithError(saveErr).Error("Failed to save game record")
		}
	}
	logger.Log.Info("Done.")
	return err
}

// readControl передает строки оператора в цикл. EOF stdin не завершает игру.
func readControl(ctx context.Context, stdin io.Reader, control chan<- string) {
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case control <- line:
		case <-ctx.Done():
			return
		}
	}
}

func saveRecord(dir string, record *domain.GameRecord) error {
	svc, err := storage.NewRecordService(dir)
	if err != nil {
		return err
	}
	path, err := svc.Save(record)
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"path":     path,
		"messages": len(record.Messages),
	}).Info("Game record saved")
	return nil
}

// replay проигрывает запись и печатает итоговую таблицу
func replay(grid *domain.Grid, opts options, stdout, stderr io.Writer) int {
	rec, err := storage.LoadFile(opts.ReplayFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	sender := replaySender{}
	svc, err := engine.Replay(grid, rec, sender)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	world := svc.World()
	fmt.Fprintf(stdout, "Replayed %d messages, %d gold remaining\n", len(rec.Messages), world.Remaining())
	for _, e := range world.Scoreboard() {
		fmt.Fprintf(stdout, "%c %10d %s\n", e.Letter, e.Gold, e.Name)
	}
	return 0
}

// replaySender пишет исходящие сообщения реплея в debug-лог
type replaySender struct{}

func (replaySender) Send(addr domain.Addr, text string) error {
	logger.Log.WithField("to", addr).Debug(text)
	return nil
}
