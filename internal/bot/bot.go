// Package bot routes inbound chat messages to command handlers.
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"sholatbot/internal/content/quran"
	"sholatbot/internal/engine"
	"sholatbot/internal/location"
	"sholatbot/internal/prayer"
	"sholatbot/internal/storage"
	"sholatbot/internal/transport"
	"sholatbot/pkg/logx"
)

type Access int

const (
	AccessEveryone Access = iota
	AccessOwnerOnly
)

type Request struct {
	Msg  transport.Message
	Args []string
}

type HandlerFunc func(ctx context.Context, req *Request) (string, error)

type Command struct {
	Route       string
	Aliases     []string
	Description string
	Usage       string
	Access      Access
	Timeout     time.Duration
	Handle      HandlerFunc
}

// Deps carries everything the handlers reach for.
type Deps struct {
	Store    *storage.Store
	Engine   *engine.Engine
	Provider prayer.Provider
	Resolver location.Resolver
	Quran    quran.Service
	Sender   engine.Sender
	Owners   []int64
	Location *time.Location
	Log      logx.Logger
}

type Bot struct {
	deps Deps
	log  logx.Logger

	commands []*Command
	byRoute  map[string]*Command
}

func New(d Deps) *Bot {
	if d.Location == nil {
		d.Location = time.Local
	}
	b := &Bot{
		deps:    d,
		log:     d.Log.With(logx.String("comp", "bot")),
		byRoute: make(map[string]*Command),
	}
	b.register()
	return b
}

func (b *Bot) add(c *Command) {
	b.commands = append(b.commands, c)
	b.byRoute[c.Route] = c
	for _, a := range c.Aliases {
		b.byRoute[a] = c
	}
}

// Run consumes inbound messages until ctx is canceled.
func (b *Bot) Run(ctx context.Context, in <-chan transport.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-in:
			if !ok {
				return nil
			}
			b.handle(ctx, m)
		}
	}
}

func (b *Bot) handle(ctx context.Context, m transport.Message) {
	text := strings.TrimSpace(m.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}
	fields := strings.Fields(text)
	route := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	// Group chats address commands as /cmd@botname.
	if i := strings.IndexByte(route, '@'); i >= 0 {
		route = route[:i]
	}

	cmd, ok := b.byRoute[route]
	if !ok {
		if !m.IsGroup {
			b.reply(ctx, m, "Perintah tidak dikenali. Ketik /help untuk daftar perintah.")
		}
		return
	}
	if cmd.Access == AccessOwnerOnly && !b.isOwner(m.FromID) {
		b.log.Warn("owner-only command denied",
			logx.String("route", cmd.Route), logx.Int64("from", m.FromID))
		return
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := &Request{Msg: m, Args: fields[1:]}
	reply, err := b.invoke(cctx, cmd, req)
	if err != nil {
		b.log.Warn("command failed",
			logx.String("route", cmd.Route), logx.Int64("from", m.FromID), logx.Err(err))
		if reply == "" {
			reply = "Maaf, terjadi kesalahan. Silakan coba lagi."
		}
	}
	if reply != "" {
		b.reply(ctx, m, reply)
	}
}

func (b *Bot) invoke(ctx context.Context, cmd *Command, req *Request) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in /%s: %v", cmd.Route, r)
			b.log.Error("command panicked",
				logx.String("route", cmd.Route),
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())))
			reply = ""
		}
	}()
	return cmd.Handle(ctx, req)
}

func (b *Bot) reply(ctx context.Context, m transport.Message, text string) {
	sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := b.deps.Sender.SendText(sctx, transport.ChatTarget{ChatID: m.ChatID}, text,
		&transport.SendOptions{ParseMode: "Markdown", DisablePreview: true})
	if err != nil {
		b.log.Warn("reply failed", logx.Int64("chat", m.ChatID), logx.Err(err))
	}
}

func (b *Bot) isOwner(userID int64) bool {
	for _, id := range b.deps.Owners {
		if id == userID {
			return true
		}
	}
	return false
}
