package main

import (
	"tracker-bot/bot"
	"tracker-bot/handlers"
)

func main() {
	bot.Run(handlers.Register)
}
