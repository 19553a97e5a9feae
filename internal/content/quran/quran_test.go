package quran

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"sholatbot/pkg/logx"
)

const indexJSON = `{"code":200,"data":[
 {"nomor":1,"nama":"الفاتحة","namaLatin":"Al-Fatihah","arti":"Pembukaan"},
 {"nomor":36,"nama":"يس","namaLatin":"Yasin","arti":"Yasin"}
]}`

func surahJSON(n int) string {
	if n == 1 {
		return `{"code":200,"data":{"nomor":1,"nama":"الفاتحة","namaLatin":"Al-Fatihah",
		 "jumlahAyat":7,"tempatTurun":"Mekah","arti":"Pembukaan","ayat":[
		  {"nomorAyat":1,"teksArab":"بِسْمِ اللّٰهِ","teksLatin":"bismillāhi","teksIndonesia":"Dengan nama Allah Yang Maha Pengasih, Maha Penyayang."},
		  {"nomorAyat":2,"teksArab":"اَلْحَمْدُ لِلّٰهِ","teksLatin":"al-ḥamdu lillāhi","teksIndonesia":"Segala puji bagi Allah, Tuhan seluruh alam."}
		 ]}}`
	}
	return `{"code":200,"data":{"nomor":36,"nama":"يس","namaLatin":"Yasin",
	 "jumlahAyat":83,"tempatTurun":"Mekah","arti":"Yasin","ayat":[
	  {"nomorAyat":1,"teksArab":"يسٓ","teksLatin":"yā sīn","teksIndonesia":"Ya Sin."}
	 ]}}`
}

func testServer(t *testing.T, calls *int64) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt64(calls, 1)
		}
		switch r.URL.Path {
		case "/surat":
			fmt.Fprint(w, indexJSON)
		case "/surat/1":
			fmt.Fprint(w, surahJSON(1))
		case "/surat/36":
			fmt.Fprint(w, surahJSON(36))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL}, logx.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestSurah(t *testing.T) {
	t.Parallel()

	c := testServer(t, nil)
	s, err := c.Surah(context.Background(), 1)
	if err != nil {
		t.Fatalf("surah: %v", err)
	}
	if s.LatinName != "Al-Fatihah" || s.VerseCount != 7 || len(s.Verses) != 2 {
		t.Fatalf("surah = %+v", s)
	}
	if s.Verses[0].Translation == "" || s.Verses[0].Arabic == "" {
		t.Fatalf("verse fields missing: %+v", s.Verses[0])
	}
}

func TestSurahOutOfRange(t *testing.T) {
	t.Parallel()

	c := testServer(t, nil)
	for _, n := range []int{0, 115, -3} {
		if _, err := c.Surah(context.Background(), n); !errors.Is(err, ErrNotFound) {
			t.Errorf("Surah(%d) err = %v, want ErrNotFound", n, err)
		}
	}
}

func TestSurahCached(t *testing.T) {
	t.Parallel()

	var calls int64
	c := testServer(t, &calls)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.Surah(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("upstream calls = %d, want 1 (cached)", got)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	c := testServer(t, nil)
	ctx := context.Background()

	byNumber, err := c.Lookup(ctx, "36")
	if err != nil || byNumber.LatinName != "Yasin" {
		t.Fatalf("Lookup(36) = %+v, %v", byNumber, err)
	}
	byName, err := c.Lookup(ctx, "yasin")
	if err != nil || byName.Number != 36 {
		t.Fatalf("Lookup(yasin) = %+v, %v", byName, err)
	}
	byMeaning, err := c.Lookup(ctx, "pembukaan")
	if err != nil || byMeaning.Number != 1 {
		t.Fatalf("Lookup(pembukaan) = %+v, %v", byMeaning, err)
	}
	if _, err := c.Lookup(ctx, "tidakada"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown lookup err = %v", err)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	c := testServer(t, nil)
	matches, total, err := c.Search(context.Background(), "puji")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(matches) != 1 {
		t.Fatalf("search puji: total=%d matches=%d", total, len(matches))
	}
	m := matches[0]
	if m.SurahNumber != 1 || m.SurahName != "Al-Fatihah" || m.Verse.Number != 2 {
		t.Fatalf("match = %+v", m)
	}

	if _, total, err := c.Search(context.Background(), "  "); err != nil || total != 0 {
		t.Fatalf("blank search: total=%d err=%v", total, err)
	}
}
