// Package hijri converts civil (Gregorian) dates to the tabular Islamic
// calendar. The conversion is pure arithmetic, no network: the bot only needs
// calendar-grade accuracy for display, and the tabular calendar matches the
// civil Umm al-Qura dates used by the upstream API within a day.
package hijri

import (
	"fmt"
	"time"
)

// Date is a Hijri calendar date.
type Date struct {
	Day   int
	Month int // 1..12
	Year  int
}

var monthNames = [12]string{
	"Muharram", "Safar", "Rabiul Awal", "Rabiul Akhir",
	"Jumadil Awal", "Jumadil Akhir", "Rajab", "Syaban",
	"Ramadan", "Syawal", "Dzulqaidah", "Dzulhijjah",
}

var weekdayNames = [7]string{
	"Ahad", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

// MonthName returns the Indonesian name of a Hijri month (1..12).
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// WeekdayName returns the Indonesian weekday name for a civil date.
func WeekdayName(t time.Time) string {
	return weekdayNames[int(t.Weekday())]
}

func (d Date) String() string {
	return fmt.Sprintf("%d %s %d H", d.Day, MonthName(d.Month), d.Year)
}

// FromTime converts a civil date to its tabular Hijri date.
func FromTime(t time.Time) Date {
	jd := julianDay(t.Year(), int(t.Month()), t.Day())
	return fromJulianDay(jd)
}

// julianDay implements the Fliegel–Van Flandern Gregorian-to-JDN formula.
// All divisions truncate toward zero, which the constants rely on.
func julianDay(year, month, day int) int {
	a := (month - 14) / 12
	jd := (1461 * (year + 4800 + a)) / 4
	jd += (367 * (month - 2 - 12*a)) / 12
	jd -= (3 * ((year + 4900 + a) / 100)) / 4
	jd += day - 32075
	return jd
}

// fromJulianDay is the classic tabular (astronomical epoch) conversion with a
// 30-year leap cycle.
func fromJulianDay(jd int) Date {
	l := jd - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	m := (24 * l) / 709
	d := l - (709*m)/24
	y := 30*n + j - 30
	return Date{Day: d, Month: m, Year: y}
}
