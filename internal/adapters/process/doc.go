// Package process runs the ticket search backend as an external command.
package process
