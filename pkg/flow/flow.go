// Package flow declares the ticket search conversation.
package flow

import (
	"github.com/aretw0/renfebot/pkg/adapters/memory"
	"github.com/aretw0/renfebot/pkg/domain"
	"github.com/aretw0/renfebot/pkg/dsl"
)

// Step IDs.
const (
	Origin         = "origin"
	Destination    = "destination"
	DepartureDate  = "departure_date"
	Return         = "return"
	ReturnDate     = "return_date"
	Filter         = "filter"
	MaxPrice       = "max_price"
	MaxDuration    = "max_duration"
	OutboundFrom   = "ida_earliest"
	OutboundTo     = "ida_latest"
	ReturnFrom     = "vuelta_earliest"
	ReturnTo       = "vuelta_latest"
	Search         = "search"
	Cancelled      = "cancelled"
	Entry          = Origin
	KeyWantsFilter = "filter"
)

// Prompts, as users have always seen them.
const (
	PromptOrigin         = "🚉 ¿Desde qué estación sales?"
	PromptDestination    = "🚉 ¿A qué estación vas?"
	PromptUnknownStation = "No he entendido a qué estación te refieres, por favor introdúcela como aparece en la web de Renfe"
	PromptDeparture      = "📅 ¿Cuándo sales? (dd-mm-aaaa)"
	PromptReturn         = "🔙 ¿Necesitas billete de vuelta? (S/N)"
	PromptReturnDate     = "📅 ¿Cuándo vuelves? (dd-mm-aaaa)"
	PromptFilter         = "¿Quieres filtrar los resultados? (S/N)"
	PromptMaxPrice       = "💵 ¿Precio máximo? (introduce 0 si no quieres filtrar por precio)"
	PromptMaxDuration    = "⏳ ¿Duración máxima del trayecto? (introduce 0 si no quieres filtrar por duración)"
	PromptOutboundFrom   = "🕒 ¿A partir de qué hora quieres salir? (hh:mm)"
	PromptLatest         = "🕒 ¿Y cómo muy tarde? (hh:mm)"
	PromptReturnFrom     = "🕒 ¿A partir de qué hora quieres volver? (hh:mm)"
	PromptSearching      = "🔎 Buscando billetes..."
	PromptCancelled      = "Búsqueda cancelada"
)

// Re-prompts for rejected answers.
const (
	retryDate       = "Esa fecha no es válida o ya ha pasado. " + PromptDeparture
	retryReturnDate = "La fecha de vuelta debe ser válida y no anterior a la de ida. " + PromptReturnDate
	retryNumber     = "Introduce un número, por ejemplo 45 o 45,50. "
	retryTime       = "Introduce una hora con el formato hh:mm. "
	retryLatest     = "La hora debe tener el formato hh:mm y no ser anterior a la primera. " + PromptLatest
)

// Builder declares every step of the search conversation.
func Builder() *dsl.Builder {
	b := dsl.New()

	question := func(id, prompt string, input domain.InputType) *dsl.NodeBuilder {
		return b.Add(id).
			Question(prompt).
			Input(input).
			SaveTo(id).
			On(domain.SignalCancel, Cancelled)
	}

	question(Origin, PromptOrigin, domain.InputStation).
		Retry(PromptUnknownStation).
		SaveTo(domain.KeyOriginStation).
		Go(Destination)

	question(Destination, PromptDestination, domain.InputStation).
		Retry(PromptUnknownStation).
		SaveTo(domain.KeyDestinationStation).
		Go(DepartureDate)

	question(DepartureDate, PromptDeparture, domain.InputDate).
		Retry(retryDate).
		Go(Return)

	question(Return, PromptReturn, domain.InputConfirm).
		Branch("input == 'yes'", ReturnDate).
		Go(Filter)

	question(ReturnDate, PromptReturnDate, domain.InputDate).
		Retry(retryReturnDate).
		After(domain.KeyDepartureDate).
		Go(Filter)

	question(Filter, PromptFilter, domain.InputConfirm).
		SaveTo(KeyWantsFilter).
		Branch("input == 'yes'", MaxPrice).
		Go(Search)

	question(MaxPrice, PromptMaxPrice, domain.InputPrice).
		Retry(retryNumber + PromptMaxPrice).
		Go(MaxDuration)

	question(MaxDuration, PromptMaxDuration, domain.InputDuration).
		Retry(retryNumber+PromptMaxDuration).
		Meta("unit", "hours").
		Go(OutboundFrom)

	question(OutboundFrom, PromptOutboundFrom, domain.InputTime).
		Retry(retryTime + PromptOutboundFrom).
		Go(OutboundTo)

	question(OutboundTo, PromptLatest, domain.InputTime).
		Retry(retryLatest).
		After(domain.KeyOutboundEarliest).
		Branch(domain.KeyReturn, ReturnFrom).
		Go(Search)

	question(ReturnFrom, PromptReturnFrom, domain.InputTime).
		Retry(retryTime + PromptReturnFrom).
		Go(ReturnTo)

	question(ReturnTo, PromptLatest, domain.InputTime).
		Retry(retryLatest).
		After(domain.KeyReturnEarliest).
		Go(Search)

	b.Add(Search).Search(PromptSearching)
	b.Add(Cancelled).Text(PromptCancelled).Terminal()

	return b
}

// New compiles the search conversation into a loader.
func New() (*memory.Loader, error) {
	return Builder().Build()
}
