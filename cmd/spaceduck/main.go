// Spaceduck - диктовка по удержанию клавиши.
//
// Удерживайте клавишу-триггер (Fn на macOS): если в фокусе окно Spaceduck,
// диктовка идёт в чат, иначе - в активное приложение.
package main

import (
	"log"
	"os"

	"spaceduck/internal/app"
	"spaceduck/internal/trigger"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Printf("Spaceduck %s запускается...", Version)

	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	trigger.RunOnMainThread(run)
}

func run() {
	application, err := app.New()
	if err != nil {
		log.Printf("Ошибка инициализации: %v", err)
		os.Exit(1)
	}

	log.Println("Приложение запущено. Удерживайте клавишу-триггер для диктовки.")
	application.Run()
}
