package worker

import (
	"log/slog"
	"time"

	"github.com/scmhub/calendar"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

// TradingCalendar reports whether a region's exchange trades on a given day
type TradingCalendar interface {
	IsTradingDay(region domain.Region, t time.Time) bool
}

// MarketCalendar answers trading-day questions from exchange holiday
// calendars. Regions without a calendar trade Monday to Friday.
type MarketCalendar struct {
	calendars map[domain.Region]*calendar.Calendar
	logger    *slog.Logger
}

// regionMICs lists candidate exchange codes per region, most preferred first
var regionMICs = map[domain.Region][]string{
	domain.RegionIndian: {"xnse", "xbom"},
	domain.RegionUS:     {"xnys", "xnas"},
}

// NewMarketCalendar loads the exchange calendars for every region
func NewMarketCalendar(logger *slog.Logger) *MarketCalendar {
	mc := &MarketCalendar{
		calendars: make(map[domain.Region]*calendar.Calendar),
		logger:    logger.With("component", "market_calendar"),
	}

	for region, mics := range regionMICs {
		for _, mic := range mics {
			if cal := calendar.GetCalendar(mic); cal != nil {
				mc.calendars[region] = cal
				mc.logger.Debug("loaded exchange calendar", "region", region, "mic", mic)
				break
			}
		}
		if mc.calendars[region] == nil {
			mc.logger.Warn("no exchange calendar, using weekday fallback", "region", region, "mics", mics)
		}
	}

	return mc
}

// IsTradingDay reports whether the region's exchange is open on t's date in
// the exchange's own timezone
func (mc *MarketCalendar) IsTradingDay(region domain.Region, t time.Time) bool {
	cal, ok := mc.calendars[region]
	if !ok || cal == nil {
		wd := t.UTC().Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}

	if cal.Loc != nil {
		t = t.In(cal.Loc)
	}
	return cal.IsBusinessDay(t)
}

// Ensure MarketCalendar implements TradingCalendar
var _ TradingCalendar = (*MarketCalendar)(nil)
