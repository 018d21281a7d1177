package pipeline

import (
	"strconv"

	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/sink"
)

// sheetHeader is the column contract shared by snapshot, mirror and
// historical tabs. The Horizon column stays blank on snapshot tabs.
var sheetHeader = []string{
	"Scrape Timestamp",
	"Booking Date",
	"Time Slot",
	"Slots Available",
	"Slots Booked",
	"Revenue",
	"Horizon",
}

// snapshotTable formats records for a tab replace, leaving the horizon
// column blank.
func snapshotTable(records []model.SlotRecord) sink.Table {
	return buildTable(records, false)
}

// historicalTable formats records for the append-only tracking tab,
// horizon column included.
func historicalTable(records []model.SlotRecord) sink.Table {
	return buildTable(records, true)
}

func buildTable(records []model.SlotRecord, withHorizon bool) sink.Table {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		horizon := ""
		if withHorizon {
			horizon = string(rec.Horizon)
		}
		rows = append(rows, []string{
			rec.ScrapedAt.Format("2006-01-02 15:04:05"),
			rec.Date.Format("2006-01-02"),
			rec.TimeSlot(),
			strconv.Itoa(rec.Available),
			strconv.Itoa(rec.Booked),
			strconv.FormatFloat(rec.Revenue, 'f', 2, 64),
			horizon,
		})
	}
	return sink.Table{Header: sheetHeader, Rows: rows}
}
