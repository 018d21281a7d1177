package analytics

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/project"
	"github.com/alpine-leisure/spawatch/internal/sink"
)

// RevenueTab names the weekly revenue projection sheet.
const RevenueTab = "Revenue_Analytics"

const (
	projectionWeeks  = 12
	weekdayOccupancy = 0.65
	weekendOccupancy = 0.85
)

var revenueHeader = []string{
	"Week", "Start Date", "Weekday Occupancy", "Weekend Occupancy",
	"Seasonal Factor", "Weekly Revenue", "Weekly Costs", "Weekly Profit",
	"Profit Margin", "Breakeven Days", "Weekly ROI",
}

// WeeklyProjection is one row of the 12-week revenue forecast.
type WeeklyProjection struct {
	Week     int
	Start    time.Time
	Seasonal float64
	Revenue  float64
	Costs    float64
	Profit   float64
}

// WeeklyProjections forecasts weekly revenue for the next 12 weeks: five
// weekdays at 65% occupancy and two weekend days at 85%, scaled by the
// seasonal demand factor.
func WeeklyProjections(now time.Time, mix model.GuestMix, clientCapacity int, dailyFixedCosts float64) []WeeklyProjection {
	avgRate := (project.BlendedRate(12, mix) + project.BlendedRate(18, mix)) / 2
	capacity := float64(clientCapacity)

	out := make([]WeeklyProjection, 0, projectionWeeks)
	for week := 1; week <= projectionWeeks; week++ {
		start := now.AddDate(0, 0, (week-1)*7)
		seasonal := SeasonalMultiplier(start.Month())

		weekday := 5 * slotsPerDay * weekdayOccupancy * capacity * avgRate * seasonal
		weekend := 2 * slotsPerDay * weekendOccupancy * capacity * avgRate * seasonal

		revenue := weekday + weekend
		costs := 7 * dailyFixedCosts
		out = append(out, WeeklyProjection{
			Week:     week,
			Start:    start,
			Seasonal: seasonal,
			Revenue:  math.Round(revenue*100) / 100,
			Costs:    costs,
			Profit:   math.Round((revenue-costs)*100) / 100,
		})
	}
	return out
}

// BuildRevenue writes the Revenue_Analytics tab.
func (a *Analyzer) BuildRevenue(now time.Time) error {
	projections := WeeklyProjections(now, a.mix, a.cfg.ClientCapacity, a.cfg.DailyFixedCosts)

	rows := make([][]string, 0, len(projections))
	for _, p := range projections {
		rows = append(rows, []string{
			fmt.Sprintf("Week %d", p.Week),
			p.Start.Format("2006-01-02"),
			fmt.Sprintf("%.0f%%", weekdayOccupancy*100),
			fmt.Sprintf("%.0f%%", weekendOccupancy*100),
			fmt.Sprintf("%.2f", p.Seasonal),
			strconv.FormatFloat(p.Revenue, 'f', 2, 64),
			strconv.FormatFloat(p.Costs, 'f', 2, 64),
			strconv.FormatFloat(p.Profit, 'f', 2, 64),
			fmt.Sprintf("%.1f%%", p.Profit/p.Revenue*100),
			fmt.Sprintf("%.1f", math.Round(p.Costs/(p.Revenue/7)*10)/10),
			fmt.Sprintf("%.1f%%", p.Profit/p.Costs*100),
		})
	}

	if err := a.sink.Replace(RevenueTab, sink.Table{Header: revenueHeader, Rows: rows}); err != nil {
		return err
	}
	zap.L().Info("analytics: revenue projections written", zap.Int("weeks", len(rows)))
	return nil
}
