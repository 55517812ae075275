package app

import (
	"context"
	"errors"

	"github.com/coreos/go-systemd/v22/daemon"

	"hwbot/internal/config"
	"hwbot/internal/notifier"
	"hwbot/internal/poller"
	"hwbot/internal/practicum"
	"hwbot/internal/runtime/supervisor"
	"hwbot/internal/storage"
	telegram "hwbot/internal/transport/telegram/adapter"
	logx "hwbot/pkg/logx"
)

type Options struct {
	// ConfigPath is optional; empty means built-in defaults.
	ConfigPath string
	// EnvFiles are dotenv files loaded before reading credentials.
	EnvFiles []string
}

type App struct {
	cfgm *config.ConfigManager

	log     logx.Logger
	logs    *logx.Service
	journal storage.Journal

	notif *notifier.Service
	loop  *poller.Loop

	watchdog bool
}

// New loads config and credentials and wires every component.
// No network call happens here; with a missing credential New logs at
// critical level and returns *MissingCredentialsError.
func New(opts Options) (*App, error) {
	cfgm := config.NewConfigManager(opts.ConfigPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logs, root := logx.New(mapLoggingConfig(cfg))
	log := root.With(logx.String("comp", "app"))
	cfgm.SetLogger(root.With(logx.String("comp", "config")))

	fail := func(err error) (*App, error) {
		_ = logs.Close()
		return nil, err
	}

	creds, err := config.LoadCredentials(opts.EnvFiles...)
	if err != nil {
		return fail(err)
	}
	if missing := creds.Missing(); len(missing) > 0 {
		err := &MissingCredentialsError{Missing: missing}
		log.Critical("required credentials are not set; refusing to start", logx.Strs("missing", missing))
		return fail(err)
	}

	target, err := parseChatTarget(creds.TelegramChatID)
	if err != nil {
		log.Critical("invalid telegram chat id", logx.Err(err))
		return fail(err)
	}

	pcfg, err := mapPracticumConfig(cfg, creds.PracticumToken)
	if err != nil {
		return fail(err)
	}
	api, err := practicum.New(pcfg)
	if err != nil {
		return fail(err)
	}

	tcfg, err := mapTelegramConfig(cfg, creds.TelegramToken)
	if err != nil {
		return fail(err)
	}
	ad, err := telegram.New(tcfg, root.With(logx.String("comp", "telegram")))
	if err != nil {
		return fail(err)
	}

	jcfg, err := mapJournalConfig(cfg)
	if err != nil {
		return fail(err)
	}
	journal, err := storage.Open(jcfg, root.With(logx.String("comp", "journal")))
	if err != nil {
		return fail(err)
	}
	if journal != nil {
		log.Info("delivery journal enabled", logx.String("driver", jcfg.Driver))
	}

	a := &App{
		cfgm:    cfgm,
		log:     log,
		logs:    logs,
		journal: journal,
	}
	a.notif = notifier.New(mapNotifierConfig(cfg, target, tcfg), ad, root.With(logx.String("comp", "notifier")), journal)

	pollCfg, err := mapPollConfig(cfg)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	if d, err := daemon.SdWatchdogEnabled(false); err == nil && d > 0 {
		a.watchdog = true
		if d < pollCfg.Interval {
			log.Warn("systemd WatchdogSec is shorter than the poll interval", logx.Duration("watchdog", d), logx.Duration("interval", pollCfg.Interval))
		}
	}
	a.loop = poller.New(pollCfg, api, a.notif, root.With(logx.String("comp", "poller")), poller.WithCycleHook(a.cycleDone))
	return a, nil
}

// Run blocks until ctx is cancelled (nil) or the poll loop fails.
func (a *App) Run(ctx context.Context) error {
	defer func() { _ = a.close() }()

	sup := supervisor.NewSupervisor(ctx,
		supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true),
	)

	sup.Go("config.watch", func(c context.Context) error {
		// Watcher failures never stop polling.
		if err := a.cfgm.Watch(c, a.applyConfig); err != nil {
			a.log.Warn("config watcher stopped", logx.Err(err))
		}
		return nil
	})
	sup.Go("poll", func(c context.Context) error {
		defer sup.Cancel()
		return a.loop.Run(c)
	})

	a.sdNotify(daemon.SdNotifyReady)
	a.log.Info("hwbot started")

	err := sup.Wait(context.Background())
	a.sdNotify(daemon.SdNotifyStopping)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error("hwbot stopped with error", logx.Err(err))
		return err
	}
	a.log.Info("hwbot stopped")
	return nil
}

// Notifier exposes delivery history for diagnostics.
func (a *App) Notifier() *notifier.Service { return a.notif }

func (a *App) applyConfig(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		a.log.Warn("reloaded config is invalid; keeping current logging", logx.Err(err))
		return
	}
	a.logs.Apply(mapLoggingConfig(cfg))
	a.log.Info("logging config applied; other sections take effect on restart")
}

func (a *App) cycleDone() {
	if a.watchdog {
		a.sdNotify(daemon.SdNotifyWatchdog)
	}
}

func (a *App) sdNotify(state string) {
	if _, err := daemon.SdNotify(false, state); err != nil {
		a.log.Debug("sd_notify failed", logx.String("state", state), logx.Err(err))
	}
}

func (a *App) close() error {
	var errs []error
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
		a.journal = nil
	}
	if a.logs != nil {
		errs = append(errs, a.logs.Close())
	}
	return errors.Join(errs...)
}
