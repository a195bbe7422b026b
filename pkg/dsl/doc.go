/*
Package dsl provides a fluent builder for conversation graphs.

Flows are declared in Go instead of external files, so the compiler checks
them and tests can build small graphs inline.

Example usage:

	b := dsl.New()

	b.Add("start").
		Question("¿Desde qué estación sales?").
		Input(domain.InputStation).
		SaveTo(domain.KeyOriginStation).
		On(domain.SignalCancel, "cancelled").
		Go("search")

	b.Add("search").Search("🔎 Buscando billetes...")
	b.Add("cancelled").Text("Búsqueda cancelada").Terminal()

	loader, err := b.Build()
*/
package dsl
