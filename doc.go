/*
Package renfebot is a chat bot that walks a user through a Renfe train ticket
search, one question at a time.

The conversation is a deterministic state machine. The Engine holds the graph
(origin, destination, dates, return trip, optional filters) and validates
every answer; the host (Telegram, console, HTTP) owns the I/O, the session
store and the search backend. A single system-wide flag guarantees that only
one search runs at a time.

# Usage

	eng, err := renfebot.New(renfebot.WithStationResolver(catalog))
	if err != nil {
		log.Fatal(err)
	}

	state, _ := eng.Start(ctx, "chat-42", nil)
	for {
		actions, terminal, err := eng.Render(ctx, state)
		if err != nil {
			log.Fatal(err)
		}
		for _, act := range actions {
			handle(act) // send text, or run the search on ActionRunSearch
		}
		if terminal {
			break
		}

		next, err := eng.Navigate(ctx, state, readAnswer())
		if prompt, ok := renfebot.IsInputError(err); ok {
			send(prompt) // same step, ask again
			continue
		}
		if err != nil {
			log.Fatal(err)
		}
		state = next
	}

The runner in pkg/runner implements this loop together with the bot's
commands (/buscar, /reintentar, /cancelar...).
*/
package renfebot
