package analytics

import (
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/project"
	"github.com/alpine-leisure/spawatch/internal/sink"
)

// FinancialTab names the occupancy-scenario projection sheet.
const FinancialTab = "Financial_Projections_Detailed"

const (
	monthDays        = 30
	variableCostRate = 0.30
)

var financialHeader = []string{
	"Scenario", "Description", "Target Occupancy", "Monthly Bookings",
	"Monthly Revenue", "Monthly Fixed Costs", "Monthly Variable Costs",
	"Total Monthly Costs", "Monthly Profit", "Profit Margin",
	"Annual Revenue", "Annual Profit", "Breakeven Occupancy",
	"Days to Breakeven", "Monthly ROI",
}

var occupancyScenarios = []struct {
	name      string
	occupancy float64
}{
	{"Conservative", 0.60},
	{"Realistic", 0.75},
	{"Optimistic", 0.85},
	{"Peak Performance", 0.95},
}

// Scenario is one monthly occupancy scenario with its cost structure.
type Scenario struct {
	Name               string
	Description        string
	Occupancy          float64
	Bookings           float64
	Revenue            float64
	FixedCosts         float64
	VariableCosts      float64
	TotalCosts         float64
	Profit             float64
	AnnualRevenue      float64
	AnnualProfit       float64
	BreakevenOccupancy float64
	DaysToBreakeven    float64
}

// FinancialScenarios projects monthly and annual economics at four target
// occupancy levels. Variable costs run at 30% of revenue; the breakeven
// point covers fixed costs out of the contribution margin.
func FinancialScenarios(mix model.GuestMix, clientCapacity int, dailyFixedCosts float64) []Scenario {
	avgRate := (project.BlendedRate(12, mix) + project.BlendedRate(18, mix)) / 2
	monthlySlots := float64(monthDays * slotsPerDay * clientCapacity)
	fixedCosts := monthDays * dailyFixedCosts

	breakevenRevenue := fixedCosts / (1 - variableCostRate)
	breakevenOccupancy := breakevenRevenue / avgRate / monthlySlots

	out := make([]Scenario, 0, len(occupancyScenarios))
	for _, s := range occupancyScenarios {
		bookings := monthlySlots * s.occupancy
		revenue := bookings * avgRate
		variable := revenue * variableCostRate
		total := fixedCosts + variable
		profit := revenue - total

		out = append(out, Scenario{
			Name:               s.name,
			Description:        fmt.Sprintf("%.0f%% average occupancy", s.occupancy*100),
			Occupancy:          s.occupancy,
			Bookings:           math.Round(bookings),
			Revenue:            math.Round(revenue*100) / 100,
			FixedCosts:         fixedCosts,
			VariableCosts:      math.Round(variable*100) / 100,
			TotalCosts:         math.Round(total*100) / 100,
			Profit:             math.Round(profit*100) / 100,
			AnnualRevenue:      math.Round(revenue*12*100) / 100,
			AnnualProfit:       math.Round(profit*12*100) / 100,
			BreakevenOccupancy: breakevenOccupancy,
			DaysToBreakeven:    math.Round(breakevenRevenue/(revenue/monthDays)*10) / 10,
		})
	}
	return out
}

// BuildFinancial writes the Financial_Projections_Detailed tab.
func (a *Analyzer) BuildFinancial() error {
	scenarios := FinancialScenarios(a.mix, a.cfg.ClientCapacity, a.cfg.DailyFixedCosts)

	rows := make([][]string, 0, len(scenarios))
	for _, s := range scenarios {
		rows = append(rows, []string{
			s.Name,
			s.Description,
			fmt.Sprintf("%.0f%%", s.Occupancy*100),
			strconv.Itoa(int(s.Bookings)),
			strconv.FormatFloat(s.Revenue, 'f', 2, 64),
			strconv.FormatFloat(s.FixedCosts, 'f', 2, 64),
			strconv.FormatFloat(s.VariableCosts, 'f', 2, 64),
			strconv.FormatFloat(s.TotalCosts, 'f', 2, 64),
			strconv.FormatFloat(s.Profit, 'f', 2, 64),
			fmt.Sprintf("%.1f%%", s.Profit/s.Revenue*100),
			strconv.FormatFloat(s.AnnualRevenue, 'f', 2, 64),
			strconv.FormatFloat(s.AnnualProfit, 'f', 2, 64),
			fmt.Sprintf("%.1f%%", s.BreakevenOccupancy*100),
			fmt.Sprintf("%.1f", s.DaysToBreakeven),
			fmt.Sprintf("%.1f%%", s.Profit/s.TotalCosts*100),
		})
	}

	if err := a.sink.Replace(FinancialTab, sink.Table{Header: financialHeader, Rows: rows}); err != nil {
		return err
	}
	zap.L().Info("analytics: financial scenarios written", zap.Int("rows", len(rows)))
	return nil
}
