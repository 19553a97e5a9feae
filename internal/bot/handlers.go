package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sholatbot/internal/compose"
	"sholatbot/internal/content/dua"
	"sholatbot/internal/content/quote"
	"sholatbot/internal/content/quran"
	"sholatbot/internal/location"
	"sholatbot/internal/prayer"
	"sholatbot/internal/storage"
	"sholatbot/pkg/logx"
)

const digestKeyword = "motivasi"

func (b *Bot) register() {
	b.add(&Command{
		Route:       "start",
		Description: "Mulai menggunakan bot",
		Handle:      b.cmdStart,
	})
	b.add(&Command{
		Route:       "help",
		Aliases:     []string{"bantuan"},
		Description: "Daftar perintah",
		Handle:      b.cmdHelp,
	})
	b.add(&Command{
		Route:       "sholat",
		Aliases:     []string{"jadwal"},
		Description: "Jadwal sholat hari ini",
		Usage:       "/sholat [nama kota]",
		Handle:      b.cmdSholat,
	})
	b.add(&Command{
		Route:       "subscribe",
		Aliases:     []string{"langgan"},
		Description: "Berlangganan pengingat sholat atau motivasi harian",
		Usage:       "/subscribe <nama kota> | /subscribe motivasi",
		Handle:      b.cmdSubscribe,
	})
	b.add(&Command{
		Route:       "unsubscribe",
		Description: "Berhenti berlangganan",
		Usage:       "/unsubscribe [motivasi]",
		Handle:      b.cmdUnsubscribe,
	})
	b.add(&Command{
		Route:       "langganan",
		Description: "Lihat langganan aktif",
		Handle:      b.cmdLangganan,
	})
	b.add(&Command{
		Route:       "motivasi",
		Description: "Kata motivasi Islami",
		Handle:      b.cmdMotivasi,
	})
	b.add(&Command{
		Route:       "doa",
		Description: "Kumpulan doa harian",
		Usage:       "/doa [judul, kata kunci, acak, atau kategori <nama>]",
		Handle:      b.cmdDoa,
	})
	b.add(&Command{
		Route:       "quran",
		Aliases:     []string{"surat"},
		Description: "Baca surah Al-Quran",
		Usage:       "/quran <nomor atau nama surah>",
		Timeout:     30 * time.Second,
		Handle:      b.cmdQuran,
	})
	b.add(&Command{
		Route:       "cariayat",
		Aliases:     []string{"cari_ayat"},
		Description: "Cari ayat berdasarkan kata kunci",
		Usage:       "/cariayat <kata kunci>",
		Timeout:     60 * time.Second,
		Handle:      b.cmdCariAyat,
	})
	b.add(&Command{
		Route:       "hijriah",
		Aliases:     []string{"hijriyah"},
		Description: "Tanggal Hijriah (hari ini atau DD-MM-YYYY)",
		Usage:       "/hijriah [DD-MM-YYYY]",
		Handle:      b.cmdHijriah,
	})
	b.add(&Command{
		Route:       "testnotif",
		Description: "Kirim notifikasi percobaan",
		Access:      AccessOwnerOnly,
		Handle:      b.cmdTestNotif,
	})
}

func (b *Bot) rememberUser(ctx context.Context, req *Request) {
	err := b.deps.Store.UpsertUser(ctx, storage.User{
		ID:        req.Msg.FromID,
		ChatID:    req.Msg.ChatID,
		FirstName: req.Msg.FromFirst,
		LastName:  req.Msg.FromLast,
		Username:  req.Msg.FromUsername,
	})
	if err != nil {
		b.log.Warn("upsert user failed", logx.Int64("user", req.Msg.FromID), logx.Err(err))
	}
}

func (b *Bot) cmdStart(ctx context.Context, req *Request) (string, error) {
	b.rememberUser(ctx, req)
	name := strings.TrimSpace(req.Msg.FromFirst)
	if name == "" {
		name = "sahabat"
	}
	return fmt.Sprintf(
		"Assalamu'alaikum, %s! 🕌\n\n"+
			"Saya bot pengingat waktu sholat untuk wilayah Indonesia.\n\n"+
			"Coba /sholat <kota> untuk jadwal hari ini, atau /subscribe <kota> "+
			"agar saya mengingatkan setiap waktu sholat.\n\n"+
			"Ketik /help untuk daftar lengkap perintah.", name), nil
}

func (b *Bot) cmdHelp(_ context.Context, _ *Request) (string, error) {
	var sb strings.Builder
	sb.WriteString("📖 *Daftar Perintah*\n\n")
	for _, c := range b.commands {
		if c.Access == AccessOwnerOnly {
			continue
		}
		usage := c.Usage
		if usage == "" {
			usage = "/" + c.Route
		}
		fmt.Fprintf(&sb, "%s — %s\n", usage, c.Description)
	}
	return sb.String(), nil
}

// cityFor picks the city for a schedule request: the explicit argument first,
// then the user's prayer subscription.
func (b *Bot) cityFor(ctx context.Context, req *Request) (location.City, error) {
	if len(req.Args) > 0 {
		return b.deps.Resolver.Resolve(ctx, strings.Join(req.Args, " "))
	}
	subs, err := b.deps.Store.ListSubscriptions(ctx, req.Msg.FromID)
	if err != nil {
		return location.City{}, err
	}
	for _, s := range subs {
		if s.Kind == storage.KindPrayer && s.Active && s.CityID != "" {
			return location.City{ID: s.CityID, Name: s.City}, nil
		}
	}
	return location.City{}, location.ErrNotFound
}

func (b *Bot) cmdSholat(ctx context.Context, req *Request) (string, error) {
	b.rememberUser(ctx, req)
	city, err := b.cityFor(ctx, req)
	if errors.Is(err, location.ErrNotFound) {
		if len(req.Args) > 0 {
			return "Kota tidak ditemukan. Coba nama kota lain, misal: /sholat jakarta", nil
		}
		return "Sebutkan kotanya, misal: /sholat jakarta", nil
	}
	if err != nil {
		return "", err
	}

	day := time.Now().In(b.deps.Location).Format(time.DateOnly)
	sched, err := b.deps.Provider.Schedule(ctx, city.ID, day)
	if errors.Is(err, prayer.ErrNoSchedule) {
		return fmt.Sprintf("Jadwal untuk %s belum tersedia hari ini.", city.Name), nil
	}
	if err != nil {
		return "", err
	}
	return compose.ScheduleList(sched), nil
}

func (b *Bot) cmdSubscribe(ctx context.Context, req *Request) (string, error) {
	b.rememberUser(ctx, req)
	if len(req.Args) == 0 {
		return "Sebutkan kotanya, misal: /subscribe jakarta\n" +
			"Atau /subscribe motivasi untuk motivasi harian.", nil
	}

	if strings.EqualFold(req.Args[0], digestKeyword) {
		created, err := b.deps.Store.Subscribe(ctx, req.Msg.FromID, storage.KindDigest, "", "")
		if err != nil {
			return "", err
		}
		if !created {
			return "Anda sudah berlangganan motivasi harian. 🌙", nil
		}
		return "Berhasil! Setiap pagi Anda akan menerima kata motivasi Islami. 🌙", nil
	}

	city, err := b.deps.Resolver.Resolve(ctx, strings.Join(req.Args, " "))
	if errors.Is(err, location.ErrNotFound) {
		return "Kota tidak ditemukan. Coba nama kota lain, misal: /subscribe bandung", nil
	}
	if err != nil {
		return "", err
	}
	if _, err := b.deps.Store.Subscribe(ctx, req.Msg.FromID, storage.KindPrayer, city.Name, city.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Berhasil! 🕌\nAnda berlangganan pengingat waktu sholat untuk *%s*.\n"+
			"Pengingat dikirim menjelang dan tepat pada setiap waktu sholat.", city.Name), nil
}

func (b *Bot) cmdUnsubscribe(ctx context.Context, req *Request) (string, error) {
	kind := storage.KindPrayer
	what := "pengingat waktu sholat"
	if len(req.Args) > 0 && strings.EqualFold(req.Args[0], digestKeyword) {
		kind = storage.KindDigest
		what = "motivasi harian"
	}
	if err := b.deps.Store.Unsubscribe(ctx, req.Msg.FromID, kind); err != nil {
		return "", err
	}
	return fmt.Sprintf("Langganan %s telah dihentikan.", what), nil
}

func (b *Bot) cmdLangganan(ctx context.Context, req *Request) (string, error) {
	subs, err := b.deps.Store.ListSubscriptions(ctx, req.Msg.FromID)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, s := range subs {
		if !s.Active {
			continue
		}
		switch s.Kind {
		case storage.KindPrayer:
			lines = append(lines, fmt.Sprintf("🕌 Pengingat sholat — %s", s.City))
		case storage.KindDigest:
			lines = append(lines, "🌙 Motivasi harian")
		}
	}
	if len(lines) == 0 {
		return "Anda belum berlangganan apa pun. Coba /subscribe jakarta", nil
	}
	return "*Langganan Aktif*\n\n" + strings.Join(lines, "\n"), nil
}

func (b *Bot) cmdMotivasi(_ context.Context, _ *Request) (string, error) {
	return compose.Quote(quote.Random()), nil
}

func (b *Bot) cmdDoa(_ context.Context, req *Request) (string, error) {
	if len(req.Args) == 0 {
		return compose.DuaIndex(dua.All()), nil
	}
	if strings.EqualFold(req.Args[0], "acak") {
		return compose.Dua(dua.Random()), nil
	}
	if strings.EqualFold(req.Args[0], "kategori") {
		if len(req.Args) < 2 {
			return "Sebutkan kategorinya, misal: /doa kategori daily", nil
		}
		hits := dua.ByCategory(strings.Join(req.Args[1:], " "))
		if len(hits) == 0 {
			return "Kategori tidak ditemukan. Ketik /doa untuk melihat daftarnya.", nil
		}
		return compose.DuaIndex(hits), nil
	}
	q := strings.Join(req.Args, " ")
	if d, ok := dua.ByTitle(q); ok {
		return compose.Dua(d), nil
	}
	if hits := dua.Search(q); len(hits) > 0 {
		if len(hits) == 1 {
			return compose.Dua(hits[0]), nil
		}
		return compose.DuaIndex(hits), nil
	}
	return "Doa tidak ditemukan. Ketik /doa untuk melihat daftarnya.", nil
}

func (b *Bot) cmdQuran(ctx context.Context, req *Request) (string, error) {
	b.rememberUser(ctx, req)
	if len(req.Args) == 0 {
		return "Sebutkan surahnya, misal:\n" +
			"- /quran 1 untuk Surah Al-Fatihah\n" +
			"- /quran yasin untuk Surah Yasin", nil
	}
	s, err := b.deps.Quran.Lookup(ctx, strings.Join(req.Args, " "))
	if errors.Is(err, quran.ErrNotFound) {
		return "Surah tidak ditemukan. Gunakan nomor 1-114 atau nama surah.", nil
	}
	if err != nil {
		return "", err
	}
	return compose.Surah(s), nil
}

func (b *Bot) cmdCariAyat(ctx context.Context, req *Request) (string, error) {
	b.rememberUser(ctx, req)
	if len(req.Args) == 0 {
		return "Sebutkan kata kuncinya, misal: /cariayat rahmat", nil
	}
	matches, total, err := b.deps.Quran.Search(ctx, strings.Join(req.Args, " "))
	if err != nil {
		return "", err
	}
	return compose.VerseMatches(total, matches), nil
}

// hijriahLayout is the Gregorian input format users send, e.g. "17-08-2026".
const hijriahLayout = "02-01-2006"

func (b *Bot) cmdHijriah(_ context.Context, req *Request) (string, error) {
	day := time.Now().In(b.deps.Location)
	if len(req.Args) > 0 {
		parsed, err := time.ParseInLocation(hijriahLayout, req.Args[0], b.deps.Location)
		if err != nil {
			return "Format tanggal tidak valid. Gunakan DD-MM-YYYY, misal: /hijriah 17-08-2026", nil
		}
		day = parsed
	}
	return compose.HijriToday(day), nil
}

func (b *Bot) cmdTestNotif(ctx context.Context, req *Request) (string, error) {
	if err := b.deps.Engine.SendTest(ctx, req.Msg.ChatID); err != nil {
		return "", fmt.Errorf("send test: %w", err)
	}
	// The test message itself is the confirmation.
	return "", nil
}
