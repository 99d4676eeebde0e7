package services

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Narayanansankar/ParkingDashboard/internal/models"
)

// SeverityTier classifies an occupancy percentage. Boundaries are
// strict: exactly 85 is still warning, exactly 50 is still normal.
func SeverityTier(percent float64) models.Tier {
	switch {
	case percent > 85:
		return models.TierCritical
	case percent > 50:
		return models.TierWarning
	default:
		return models.TierNormal
	}
}

var printers = map[string]*message.Printer{
	"en": message.NewPrinter(language.English),
	"ta": message.NewPrinter(language.Tamil),
}

func printerFor(locale string) *message.Printer {
	if p, ok := printers[locale]; ok {
		return p
	}
	return printers["en"]
}

// FormatCount renders a vehicle count with locale thousands grouping.
func FormatCount(n int, locale string) string {
	return printerFor(locale).Sprintf("%d", n)
}

var timestampLayouts = map[string]string{
	"en": "Jan 2, 2006, 3:04 PM",
	"ta": "2 Jan, 2006, 15:04",
}

// FormatTimestamp renders a medium date + short time for the locale.
func FormatTimestamp(t time.Time, locale string) string {
	layout, ok := timestampLayouts[locale]
	if !ok {
		layout = timestampLayouts["en"]
	}
	return t.Format(layout)
}

// FormatAge phrases how old a timestamp is, for the staleness banner.
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// RoundPercent matches the frontend's Math.round labeling. The label
// is intentionally not clamped; only the bar width is.
func RoundPercent(percent float64) int {
	return int(math.Round(percent))
}

// BarWidth clips a percentage to the visual [0,100] range.
func BarWidth(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// labels are the fixed UI strings, one set per locale, selected in a
// single render pass instead of emitting both languages.
type labelSet struct {
	Occupancy      string
	RouteOccupancy string
	Available      string
	Closed         string
	ViewHistory    string
	NoData         string
	HistoryError   string
}

var labelsByLocale = map[string]labelSet{
	"en": {
		Occupancy:      "Occupancy",
		RouteOccupancy: "Route Occupancy",
		Available:      "Available",
		Closed:         "Closed",
		ViewHistory:    "View History",
		NoData:         "Waiting for parking data...",
		HistoryError:   "Could not load historical data. Please try again later.",
	},
	"ta": {
		Occupancy:      "நிரம்பியது",
		RouteOccupancy: "வழித்தட நிரம்பியது",
		Available:      "திறந்துள்ளது",
		Closed:         "மூடப்பட்டுள்ளது",
		ViewHistory:    "வரலாறு காண்க",
		NoData:         "வாகன நிறுத்தத் தகவலுக்காக காத்திருக்கிறது...",
		HistoryError:   "வரலாற்றுத் தரவை ஏற்ற முடியவில்லை. பின்னர் முயற்சிக்கவும்.",
	},
}

func labelsFor(locale string) labelSet {
	if l, ok := labelsByLocale[locale]; ok {
		return l
	}
	return labelsByLocale["en"]
}

// HistoryErrorMessage is the literal text shown in the history dialog
// when a lot's chart cannot be loaded.
func HistoryErrorMessage(locale string) string {
	return labelsFor(locale).HistoryError
}
