package main

import (
	"zmbs.dev/eggseed/cmd/app"
)

func main() {
	app.Run()
}
