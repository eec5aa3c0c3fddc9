// Package format renders listing attributes as display labels for result
// cards and map markers.
package format

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/lukegrady1/Roomify/internal/search/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const dateLayout = "Jan 2, 2006"

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders whole dollars with grouping: 2400 -> "$2,400".
func FormatPrice(dollars int) string {
	if dollars < 0 {
		return printer.Sprintf("-$%d", -dollars)
	}
	return printer.Sprintf("$%d", dollars)
}

// FormatPricePerMonth is FormatPrice with the rental period suffix.
func FormatPricePerMonth(dollars int) string {
	return FormatPrice(dollars) + "/mo"
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateRange describes an availability window. Either end may be open.
func FormatDateRange(start, end *time.Time) string {
	switch {
	case start == nil && end == nil:
		return "Flexible dates"
	case start == nil:
		return "Until " + FormatDate(*end)
	case end == nil:
		return "From " + FormatDate(*start)
	default:
		return FormatDate(*start) + " - " + FormatDate(*end)
	}
}

var roomTypeLabels = map[domain.RoomType]string{
	domain.RoomEntire:  "Entire place",
	domain.RoomPrivate: "Private room",
	domain.RoomShared:  "Shared room",
}

// FormatRoomType returns the human label, or the raw value when unknown.
func FormatRoomType(rt domain.RoomType) string {
	if label, ok := roomTypeLabels[rt]; ok {
		return label
	}
	return string(rt)
}

// FormatBedsBaths renders "2 beds, 1 bath". Zero or unknown counts are
// omitted; with neither it is a "Studio".
func FormatBedsBaths(bedrooms, bathrooms *int) string {
	var parts []string
	if bedrooms != nil && *bedrooms > 0 {
		parts = append(parts, plural(*bedrooms, "bed"))
	}
	if bathrooms != nil && *bathrooms > 0 {
		parts = append(parts, plural(*bathrooms, "bath"))
	}
	if len(parts) == 0 {
		return "Studio"
	}
	return strings.Join(parts, ", ")
}

// FormatAmenities joins tags as an English list with a serial comma.
func FormatAmenities(amenities []string) string {
	switch n := len(amenities); n {
	case 0:
		return ""
	case 1:
		return amenities[0]
	case 2:
		return amenities[0] + " and " + amenities[1]
	default:
		return strings.Join(amenities[:n-1], ", ") + ", and " + amenities[n-1]
	}
}

var (
	slugInvalid    = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

// Slugify builds a URL-safe identifier: "Université de Montréal" ->
// "universite-de-montreal".
func Slugify(text string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, text); err == nil {
		text = folded
	}
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func plural(n int, noun string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, noun)
	}
	return printer.Sprintf("%d %ss", n, noun)
}
