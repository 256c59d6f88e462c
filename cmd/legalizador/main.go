package main

import (
	"github.com/subosito/gotenv"
)

func main() {
	// Local .env, if present, before viper reads the environment.
	_ = gotenv.Load()

	Execute()
}
