// Package telegram connects the runner to Telegram through the Bot API,
// receiving messages by long polling.
package telegram
