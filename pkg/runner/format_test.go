package runner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatResults(t *testing.T) {
	req := domain.SearchRequest{
		OriginStation:      "MADRID-PUERTA DE ATOCHA",
		DestinationStation: "SEVILLA-SANTA JUSTA",
		DepartureDate:      "24-12-2026",
		Return:             true,
		ReturnDate:         "02-01-2027",
	}
	trains := []domain.Train{
		{Service: "AVE 02170", Direction: domain.DirectionReturn, Departure: "17:45", Arrival: "20:20", DurationMinutes: 155, Price: 45.5},
		{Service: "AVLO 06081", Direction: domain.DirectionOutbound, Departure: "09:00", Arrival: "11:30", DurationMinutes: 150, Price: 21},
		{Service: "AVE 02070", Direction: domain.DirectionOutbound, Departure: "07:00", Arrival: "09:40", DurationMinutes: 160},
	}

	got := FormatResults(req, trains)

	assert.Equal(t, strings.Join([]string{
		"🚆 Ida 24-12-2026 · MADRID-PUERTA DE ATOCHA → SEVILLA-SANTA JUSTA",
		"07:00 → 09:40 · AVE 02070 · 2 h 40 min",
		"09:00 → 11:30 · AVLO 06081 · 2 h 30 min · 21,00 €",
		"",
		"🚆 Vuelta 02-01-2027 · SEVILLA-SANTA JUSTA → MADRID-PUERTA DE ATOCHA",
		"17:45 → 20:20 · AVE 02170 · 2 h 35 min · 45,50 €",
	}, "\n"), got)
}

func TestFormatResults_Caps(t *testing.T) {
	var trains []domain.Train
	for i := 0; i < MaxTrainsPerDirection+3; i++ {
		trains = append(trains, domain.Train{Departure: fmt.Sprintf("%02d:%02d", i/60, i%60), Arrival: "23:59"})
	}

	got := FormatResults(domain.SearchRequest{DepartureDate: "24-12-2026"}, trains)

	assert.True(t, strings.HasSuffix(got, "… y 3 más"), got)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 min", formatDuration(45))
	assert.Equal(t, "3 h", formatDuration(180))
	assert.Equal(t, "1 h 05 min", formatDuration(65))
}
