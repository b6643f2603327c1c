package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/BerylCAtieno/medical-record-assistant/internal/client"
	"github.com/BerylCAtieno/medical-record-assistant/internal/config"
	"github.com/BerylCAtieno/medical-record-assistant/internal/console"
	"github.com/BerylCAtieno/medical-record-assistant/internal/dropzone"
	"github.com/BerylCAtieno/medical-record-assistant/internal/intake"
	"github.com/BerylCAtieno/medical-record-assistant/internal/locale"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

func main() {
	cfg := config.LoadIntake()

	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "analysis server base URL")
	flag.StringVar(&cfg.Language, "lang", cfg.Language, "interface language (en, zh)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level written to stderr")
	flag.StringVar(&cfg.DropDir, "drop-dir", cfg.DropDir, "directory acting as the drop zone")
	flag.DurationVar(&cfg.RevealDelay, "reveal-delay", cfg.RevealDelay, "pause before results replace the status")
	flag.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP request timeout")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [file ...]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := utils.NewConsoleLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args(), os.Stdin, os.Stdout, logger); err != nil {
		logger.Fatal("intake failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.IntakeConfig, files []string, in io.Reader, out io.Writer, logger *utils.Logger) error {
	view := console.New(out)
	api := client.New(cfg.ServerURL, logger, client.WithTimeout(cfg.HTTPTimeout))

	ctl, err := intake.New(view.Elements(), api,
		intake.WithLogger(logger),
		intake.WithPrinter(locale.New(cfg.Language)),
		intake.WithRevealDelay(cfg.RevealDelay),
	)
	if err != nil {
		return err
	}
	defer ctl.Close()

	ctl.Mount()

	if cfg.DropDir != "" {
		zone := dropzone.New(cfg.DropDir, ctl, dropzone.WithLogger(logger))
		go func() {
			if err := zone.Run(ctx); err != nil {
				logger.Error("drop zone stopped", "dir", cfg.DropDir, "error", err)
			}
		}()
	}

	for _, path := range files {
		pick(ctl, path, logger)
		ctl.Wait()
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		view.Prompt()
		select {
		case <-ctx.Done():
			view.Println()
			return nil
		case line, ok := <-lines:
			if !ok {
				ctl.Wait()
				return nil
			}
			cmd, err := parseCommand(line)
			if err != nil {
				view.Println(err)
				continue
			}
			if cmd.name == "" {
				continue
			}
			if quit := dispatch(ctl, view, cmd, logger); quit {
				return nil
			}
		}
	}
}

func dispatch(ctl *intake.Controller, view *console.View, cmd command, logger *utils.Logger) bool {
	switch cmd.name {
	case cmdOpen:
		pick(ctl, cmd.arg, logger)
	case cmdTab:
		ctl.SwitchTab(intake.TabID(cmd.arg))
	case cmdMode:
		view.ChooseMode(cmd.arg)
		ctl.HandleModeChange()
	case cmdWait:
		ctl.Wait()
	case cmdHelp:
		view.Println(usage)
	case cmdQuit:
		return true
	}
	return false
}

func pick(ctl *intake.Controller, path string, logger *utils.Logger) {
	f, err := intake.OpenFile(path)
	if err != nil {
		logger.Error("cannot open file", "path", path, "error", err)
		return
	}
	if err := ctl.HandleSelection([]intake.SelectedFile{f}); err != nil {
		logger.Debug("selection rejected", "path", path, "error", err)
	}
}
