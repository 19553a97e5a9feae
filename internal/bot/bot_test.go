package bot

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"sholatbot/internal/content/quran"
	"sholatbot/internal/engine"
	"sholatbot/internal/location"
	"sholatbot/internal/prayer"
	"sholatbot/internal/storage"
	"sholatbot/internal/transport"
	"sholatbot/pkg/logx"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *fakeSender) SendText(_ context.Context, _ transport.ChatTarget, text string, _ *transport.SendOptions) (transport.MessageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, text)
	return transport.MessageRef{}, nil
}

func (s *fakeSender) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1]
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, query string) (location.City, error) {
	if strings.Contains(strings.ToLower(query), "jakarta") {
		return location.City{ID: "1301", Name: "KOTA JAKARTA"}, nil
	}
	return location.City{}, location.ErrNotFound
}

type fakeProvider struct{}

func (fakeProvider) Schedule(_ context.Context, locationID, date string) (*prayer.Schedule, error) {
	return &prayer.Schedule{
		CityID: locationID,
		City:   "KOTA JAKARTA",
		Date:   date,
		Times: map[prayer.Event]string{
			prayer.Fajr: "04:39", prayer.Dhuhr: "11:56", prayer.Asr: "15:14",
			prayer.Maghrib: "17:56", prayer.Isha: "19:05",
		},
	}, nil
}

type fakeQuran struct{}

func (fakeQuran) Surah(_ context.Context, number int) (*quran.Surah, error) {
	if number != 1 {
		return nil, quran.ErrNotFound
	}
	return &quran.Surah{
		Number: 1, Name: "الفاتحة", LatinName: "Al-Fatihah", Meaning: "Pembukaan",
		Revealed: "Mekah", VerseCount: 7,
		Verses: []quran.Verse{
			{Number: 1, Arabic: "بِسْمِ اللّٰهِ", Translation: "Dengan nama Allah Yang Maha Pengasih, Maha Penyayang."},
		},
	}, nil
}

func (q fakeQuran) Lookup(ctx context.Context, query string) (*quran.Surah, error) {
	if query == "1" || strings.Contains(strings.ToLower(query), "fatihah") {
		return q.Surah(ctx, 1)
	}
	return nil, quran.ErrNotFound
}

func (q fakeQuran) Search(ctx context.Context, keyword string) ([]quran.Match, int, error) {
	if !strings.Contains(strings.ToLower(keyword), "nama allah") {
		return nil, 0, nil
	}
	s, _ := q.Surah(ctx, 1)
	return []quran.Match{{SurahNumber: 1, SurahName: "Al-Fatihah", Verse: s.Verses[0]}}, 1, nil
}

func newTestBot(t *testing.T) (*Bot, *fakeSender) {
	t.Helper()
	st, err := storage.Open(storage.Config{Path: filepath.Join(t.TempDir(), "bot.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	send := &fakeSender{}
	eng := engine.New(engine.Config{Location: time.UTC}, st, fakeProvider{}, send, logx.Nop())
	b := New(Deps{
		Store:    st,
		Engine:   eng,
		Provider: fakeProvider{},
		Resolver: fakeResolver{},
		Quran:    fakeQuran{},
		Sender:   send,
		Owners:   []int64{99},
		Location: time.UTC,
		Log:      logx.Nop(),
	})
	return b, send
}

func msg(from, chat int64, text string) transport.Message {
	return transport.Message{ChatID: chat, FromID: from, FromFirst: "Budi", Text: text}
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	b.handle(context.Background(), msg(1, 1, "/nope"))
	if !strings.Contains(send.last(), "tidak dikenali") {
		t.Fatalf("unknown command reply = %q", send.last())
	}

	// In groups, unknown commands stay silent.
	n := send.count()
	m := msg(1, -100, "/nope")
	m.IsGroup = true
	b.handle(context.Background(), m)
	if send.count() != n {
		t.Fatal("unknown command in group should not be answered")
	}
}

func TestCommandAtBotSuffix(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	b.handle(context.Background(), msg(1, 1, "/help@sholat_bot"))
	if !strings.Contains(send.last(), "Daftar Perintah") {
		t.Fatalf("/help@bot reply = %q", send.last())
	}
}

func TestSubscribeFlow(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	b.handle(ctx, msg(1, 1, "/subscribe jakarta"))
	if !strings.Contains(send.last(), "KOTA JAKARTA") {
		t.Fatalf("subscribe reply = %q", send.last())
	}

	b.handle(ctx, msg(1, 1, "/langganan"))
	if !strings.Contains(send.last(), "KOTA JAKARTA") {
		t.Fatalf("langganan reply = %q", send.last())
	}

	b.handle(ctx, msg(1, 1, "/unsubscribe"))
	b.handle(ctx, msg(1, 1, "/langganan"))
	if !strings.Contains(send.last(), "belum berlangganan") {
		t.Fatalf("after unsubscribe: %q", send.last())
	}
}

func TestSubscribeDigest(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	b.handle(ctx, msg(2, 2, "/subscribe motivasi"))
	if !strings.Contains(send.last(), "motivasi") {
		t.Fatalf("digest subscribe reply = %q", send.last())
	}
	b.handle(ctx, msg(2, 2, "/subscribe motivasi"))
	if !strings.Contains(send.last(), "sudah berlangganan") {
		t.Fatalf("repeat digest subscribe reply = %q", send.last())
	}
}

func TestSholatUsesSubscribedCity(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	b.handle(ctx, msg(3, 3, "/sholat"))
	if !strings.Contains(send.last(), "Sebutkan kotanya") {
		t.Fatalf("no-city reply = %q", send.last())
	}

	b.handle(ctx, msg(3, 3, "/subscribe jakarta"))
	b.handle(ctx, msg(3, 3, "/sholat"))
	if !strings.Contains(send.last(), "Jadwal Sholat") || !strings.Contains(send.last(), "Subuh") {
		t.Fatalf("schedule reply = %q", send.last())
	}
}

func TestDoaLookup(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	b.handle(ctx, msg(4, 4, "/doa"))
	if !strings.Contains(send.last(), "Kumpulan Doa") {
		t.Fatalf("doa index = %q", send.last())
	}

	b.handle(ctx, msg(4, 4, "/doa doa sebelum makan"))
	if !strings.Contains(send.last(), "Bismillah") {
		t.Fatalf("doa lookup = %q", send.last())
	}
}

func TestDoaRandomAndCategory(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	b.handle(ctx, msg(4, 4, "/doa acak"))
	if !strings.Contains(send.last(), "📿") {
		t.Fatalf("random doa reply = %q", send.last())
	}

	b.handle(ctx, msg(4, 4, "/doa kategori daily"))
	if !strings.Contains(send.last(), "Doa Sebelum Makan") {
		t.Fatalf("category reply = %q", send.last())
	}

	b.handle(ctx, msg(4, 4, "/doa kategori tidakada"))
	if !strings.Contains(send.last(), "Kategori tidak ditemukan") {
		t.Fatalf("unknown category reply = %q", send.last())
	}
}

func TestQuranLookup(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	b.handle(ctx, msg(5, 5, "/quran"))
	if !strings.Contains(send.last(), "Sebutkan surahnya") {
		t.Fatalf("usage reply = %q", send.last())
	}

	b.handle(ctx, msg(5, 5, "/quran al-fatihah"))
	if !strings.Contains(send.last(), "Al-Fatihah") || !strings.Contains(send.last(), "Pembukaan") {
		t.Fatalf("surah reply = %q", send.last())
	}

	b.handle(ctx, msg(5, 5, "/quran 999"))
	if !strings.Contains(send.last(), "tidak ditemukan") {
		t.Fatalf("missing surah reply = %q", send.last())
	}
}

func TestCariAyat(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	b.handle(ctx, msg(6, 6, "/cariayat nama allah"))
	if !strings.Contains(send.last(), "1 ayat ditemukan") || !strings.Contains(send.last(), "Al-Fatihah (1:1)") {
		t.Fatalf("search reply = %q", send.last())
	}

	b.handle(ctx, msg(6, 6, "/cariayat zzz"))
	if !strings.Contains(send.last(), "tidak menghasilkan") {
		t.Fatalf("empty search reply = %q", send.last())
	}
}

func TestHijriahWithDateArgument(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	// 23 June 2024 is 16 Dzulhijjah 1445 H.
	b.handle(ctx, msg(7, 7, "/hijriah 23-06-2024"))
	if !strings.Contains(send.last(), "Dzulhijjah 1445") {
		t.Fatalf("converted date reply = %q", send.last())
	}

	b.handle(ctx, msg(7, 7, "/hijriah besok"))
	if !strings.Contains(send.last(), "Format tanggal tidak valid") {
		t.Fatalf("bad date reply = %q", send.last())
	}

	b.handle(ctx, msg(7, 7, "/hijriah"))
	if !strings.Contains(send.last(), "Kalender Hijriah") {
		t.Fatalf("today reply = %q", send.last())
	}
}

func TestTestNotifOwnerOnly(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	ctx := context.Background()

	n := send.count()
	b.handle(ctx, msg(1, 1, "/testnotif"))
	if send.count() != n {
		t.Fatal("non-owner triggered /testnotif")
	}

	b.handle(ctx, msg(99, 99, "/testnotif"))
	if !strings.Contains(send.last(), "Tes Notifikasi") {
		t.Fatalf("owner /testnotif reply = %q", send.last())
	}
}

func TestNonCommandIgnored(t *testing.T) {
	t.Parallel()

	b, send := newTestBot(t)
	b.handle(context.Background(), msg(1, 1, "halo bot"))
	if send.count() != 0 {
		t.Fatal("plain text should be ignored")
	}
}
