package main

import (
	"fmt"
	"os"

	"github.com/oddjobz/oddjobz-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Log.Info("Starting server", "port", a.Cfg.Port)
	if err := a.Run(); err != nil {
		a.Log.Error("Server exited", "error", err.Error())
		a.Close()
		os.Exit(1)
	}
}
