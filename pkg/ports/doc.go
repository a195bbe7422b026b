/*
Package ports defines the driven ports (interfaces) of the ticket-search assistant.

These interfaces decouple the conversation core from external implementations:
storage backends, the search backend, station sanitization and log storage.

# Key Interfaces

  - GraphLoader: Loads step definitions (e.g., from the in-memory flow).
  - StateStore: Persists per-chat conversation State.
  - LastRequestStore: Keeps the single last-request snapshot for retries.
  - SearchGuard: The system-wide "search in progress" flag.
  - Searcher, StationResolver, LogArchive: External collaborators.

Contract suites (RunStateStoreContract, RunSearchGuardContract,
RunLastRequestContract) let every adapter prove it honours the same semantics.
*/
package ports
