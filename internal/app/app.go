// Package app assembles the process: config, logging, storage, transport,
// the notification engine and the command router, under one supervisor.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"sholatbot/internal/bot"
	"sholatbot/internal/config"
	"sholatbot/internal/content/quran"
	"sholatbot/internal/engine"
	"sholatbot/internal/location"
	"sholatbot/internal/prayer"
	"sholatbot/internal/runtime/supervisor"
	"sholatbot/internal/storage"
	"sholatbot/internal/transport"
	"sholatbot/internal/transport/telegram"
	"sholatbot/pkg/logx"
)

type App struct {
	cfgm *config.Manager
	logs *logx.Service
	log  logx.Logger

	store   *storage.Store
	adapter *telegram.Adapter
	eng     *engine.Engine
	bot     *bot.Bot

	sup     *supervisor.Supervisor
	updates chan transport.Message
}

// New loads and validates the config, then constructs every component.
// Configuration errors are fatal here; the process must not start ticking
// with an invalid setup.
func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfgm.SetValidator(func(_ context.Context, c *config.Config) error {
		return c.Validate()
	})
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logs, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	cfgm.SetLogger(log.With(logx.String("comp", "config")))

	a := &App{
		cfgm:    cfgm,
		logs:    logs,
		log:     log,
		updates: make(chan transport.Message, 128),
	}

	ok := false
	defer func() {
		if !ok {
			a.closeQuiet()
		}
	}()

	busy, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 5*time.Second)
	if err != nil {
		return nil, err
	}
	a.store, err = storage.Open(storage.Config{Path: cfg.Storage.Path, BusyTimeout: busy}, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	apiTimeout, err := config.ParseDurationOrDefault("prayer_api.timeout", cfg.PrayerAPI.Timeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	prov, err := prayer.NewClient(prayer.ClientConfig{
		BaseURL: cfg.PrayerAPI.BaseURL,
		Timeout: apiTimeout,
	}, log)
	if err != nil {
		return nil, err
	}
	cached := prayer.NewDayCache(prov)

	resolver, err := location.NewClient(location.ClientConfig{
		BaseURL: cfg.PrayerAPI.BaseURL,
		Timeout: apiTimeout,
	}, log)
	if err != nil {
		return nil, err
	}

	quranTimeout, err := config.ParseDurationOrDefault("quran_api.timeout", cfg.QuranAPI.Timeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	quranClient, err := quran.NewClient(quran.ClientConfig{
		BaseURL: cfg.QuranAPI.BaseURL,
		Timeout: quranTimeout,
	}, log)
	if err != nil {
		return nil, err
	}

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	a.adapter, err = telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("telegram adapter: %w", err)
	}

	engCfg, err := mapEngineConfig(cfg)
	if err != nil {
		return nil, err
	}
	a.eng = engine.New(engCfg, a.store, cached, a.adapter, log)

	a.bot = bot.New(bot.Deps{
		Store:    a.store,
		Engine:   a.eng,
		Provider: cached,
		Resolver: resolver,
		Quran:    quranClient,
		Sender:   a.adapter,
		Owners:   cfg.Telegram.OwnerUserIDs,
		Location: engCfg.Location,
		Log:      log,
	})

	ok = true
	return a, nil
}

// mapEngineConfig turns the start-only engine section into engine.Config.
// The scheduling constants are not hot-reloadable.
func mapEngineConfig(cfg *config.Config) (engine.Config, error) {
	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		return engine.Config{}, fmt.Errorf("engine.timezone: %w", err)
	}
	dh, dm, err := config.ParseHHMM("engine.digest_time", cfg.Engine.DigestTime)
	if err != nil {
		return engine.Config{}, err
	}
	tick, err := config.ParseDurationOrDefault("engine.tick", cfg.Engine.Tick, time.Second)
	if err != nil {
		return engine.Config{}, err
	}
	sendTimeout, err := config.ParseDurationOrDefault("engine.send_timeout", cfg.Engine.SendTimeout, 10*time.Second)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Location:      loc,
		LeadMinutes:   cfg.Engine.LeadMinutes,
		DigestHour:    dh,
		DigestMinute:  dm,
		RetentionDays: cfg.Engine.RetentionDays,
		Tick:          tick,
		RatePerSec:    cfg.Engine.RatePerSec,
		SendTimeout:   sendTimeout,
	}, nil
}

// Start brings every component up. It returns once startup is complete; the
// components keep running on the supervisor until Stop.
func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx,
		supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))),
		supervisor.WithCancelOnError(true))

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return fmt.Errorf("start telegram adapter: %w", err)
	}

	a.sup.Go("engine", a.eng.Run)
	a.sup.Go("bot.router", func(ctx context.Context) error {
		return a.bot.Run(ctx, a.updates)
	})
	a.sup.Go("config.watch", a.cfgm.Watch)
	a.sup.Go0("config.apply", a.applyLoop)

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Warn("sd_notify failed", logx.Err(err))
	} else if sent {
		a.log.Debug("sd_notify ready sent")
	}

	a.log.Info("bot started")
	return nil
}

// applyLoop applies hot-reloaded config. Only logging is live; everything
// else (token, storage path, engine constants) takes effect on restart.
func (a *App) applyLoop(ctx context.Context) {
	ch := a.cfgm.Subscribe(1)
	defer a.cfgm.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-ch:
			if !ok {
				return
			}
			a.logs.Apply(logx.Config{
				Level:   cfg.Logging.Level,
				Console: cfg.Logging.Console,
				File: logx.FileConfig{
					Enabled: cfg.Logging.File.Enabled,
					Path:    cfg.Logging.File.Path,
				},
			})
			a.log.Info("config reloaded", logx.String("level", cfg.Logging.Level))
		}
	}
}

// Stop shuts the process down in order: stop intake, cancel workers, wait,
// then close storage and logging.
func (a *App) Stop(ctx context.Context) error {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	var firstErr error
	if a.adapter != nil {
		if err := a.adapter.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.sup != nil {
		a.sup.Cancel()
		if err := a.sup.Wait(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closeQuiet()
	a.log.Info("bot stopped")
	if a.logs != nil {
		_ = a.logs.Close()
	}
	return firstErr
}

func (a *App) closeQuiet() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// Err reports the first supervisor error, if any.
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}
