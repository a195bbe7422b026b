package runner

import "context"

// Messenger is the outbound half of a chat transport.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, path, caption string) error
}

// Replies sent by the command handlers.
const (
	MsgWelcome         = "Hola %s. Bienvenido a tu bot de Renfe. Te ayudaré a encontrar billetes de tren para tus viajes. Para empezar, escribe /ayuda para ver los comandos disponibles."
	MsgNoLastRequest   = "No hay ninguna búsqueda anterior"
	MsgNoLogs          = "No hay logs disponibles"
	MsgDebug           = "Envía este documento a los desarrolladores para que puedan ayudarte:"
	MsgCancelled       = "Búsqueda cancelada"
	MsgNothingToCancel = "No hay ninguna búsqueda en curso"
	MsgBusy            = "Ya hay una búsqueda en curso, por favor espera o utiliza /cancelar para cancelarla"
	MsgHint            = "Escribe /buscar para buscar billetes o /ayuda para ver los comandos disponibles"
	MsgUnknownCommand  = "No conozco ese comando. Escribe /ayuda para ver los comandos disponibles"
	MsgUnreadable      = "No he podido leer tu mensaje, por favor inténtalo de nuevo"
	MsgInternalError   = "Algo ha ido mal, vuelve a empezar con /buscar"
	MsgNoTrains        = "No se han encontrado trenes para esa búsqueda"
	MsgNoMatches       = "Se han encontrado %d trenes pero ninguno cumple tus filtros"
	MsgSearchFailed    = "Ha ocurrido un error durante la búsqueda. Usa /debug para obtener el log o /reintentar para volver a intentarlo"
	MsgInterrupted     = "La búsqueda se ha interrumpido. Usa /reintentar para volver a lanzarla"
	MsgDelegated       = "He guardado los parámetros de tu búsqueda. El buscador te enviará los resultados"
)

// Command names.
const (
	CmdStart  = "start"
	CmdHelp   = "ayuda"
	CmdSearch = "buscar"
	CmdRetry  = "reintentar"
	CmdDebug  = "debug"
	CmdCancel = "cancelar"
)
