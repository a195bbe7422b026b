/*
Package runner hosts the bot: it routes inbound chat messages to slash
commands or to the pending search conversation, and runs searches.

It sits between the conversation engine and the outside world. Transports
deliver messages through Runner.Handle and receive replies through the
Messenger port. Conversation state is kept per chat by a session.Manager, and
only one search may run at a time system-wide, as enforced by a
ports.SearchGuard.

# Key Components

  - Runner: command dispatch, conversation steps and asynchronous searches.
  - Messenger: the outbound port implemented by each transport.
  - TextHandler: the console transport.
  - Middleware: cross-cutting policy around Handle (logging, recovery, allow lists).

# Usage

	console := runner.NewTextHandler(os.Stdin, os.Stdout)
	r, err := runner.New(engine, console, searcher,
		runner.WithSnapshot(file.NewLastRequest("resources")),
		runner.WithArchive(file.NewArchive("logs")),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	if err := console.Serve(ctx, r.Handle); err != nil {
		log.Fatal(err)
	}
*/
package runner
