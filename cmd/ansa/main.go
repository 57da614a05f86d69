package main

import (
	"os"

	"horse.fit/ansa/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
