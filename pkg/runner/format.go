package runner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/renfebot/pkg/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MaxTrainsPerDirection caps the listing so a reply fits in one chat message.
const MaxTrainsPerDirection = 25

// FormatResults renders the trains of a search, grouped by direction and
// ordered by departure. Prices use the Spanish decimal comma.
func FormatResults(req domain.SearchRequest, trains []domain.Train) string {
	p := message.NewPrinter(language.Spanish)

	groups := map[string][]domain.Train{}
	for _, t := range trains {
		dir := t.Direction
		if dir != domain.DirectionReturn {
			dir = domain.DirectionOutbound
		}
		groups[dir] = append(groups[dir], t)
	}

	var b strings.Builder
	for _, dir := range []string{domain.DirectionOutbound, domain.DirectionReturn} {
		group := groups[dir]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Departure < group[j].Departure
		})

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(header(p, req, dir, group[0].Date))

		for i, t := range group {
			if i == MaxTrainsPerDirection {
				p.Fprintf(&b, "… y %d más\n", len(group)-i)
				break
			}
			b.WriteString(line(p, t))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func header(p *message.Printer, req domain.SearchRequest, dir, date string) string {
	label, from, to := "Ida", req.OriginStation, req.DestinationStation
	if date == "" {
		date = req.DepartureDate
	}
	if dir == domain.DirectionReturn {
		label, from, to = "Vuelta", req.DestinationStation, req.OriginStation
		if date == "" {
			date = req.ReturnDate
		}
	}
	return p.Sprintf("🚆 %s %s · %s → %s\n", label, date, from, to)
}

func line(p *message.Printer, t domain.Train) string {
	parts := []string{t.Departure + " → " + t.Arrival}
	if t.Service != "" {
		parts = append(parts, t.Service)
	}
	if t.DurationMinutes > 0 {
		parts = append(parts, formatDuration(t.DurationMinutes))
	}
	if t.Price > 0 {
		parts = append(parts, p.Sprintf("%.2f €", t.Price))
	}
	return strings.Join(parts, " · ") + "\n"
}

func formatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %02d min", h, m)
}
