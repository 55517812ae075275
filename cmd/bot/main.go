package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hwbot/internal/app"
)

func main() {
	var cfgPath, envFile string
	flag.StringVar(&cfgPath, "config", "", "path to config json/yaml (optional)")
	flag.StringVar(&envFile, "env", ".env", "dotenv file with credentials (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(app.Options{ConfigPath: cfgPath, EnvFiles: []string{envFile}})
	if err != nil {
		var mc *app.MissingCredentialsError
		if errors.As(err, &mc) {
			fmt.Fprintln(os.Stderr, "fatal:", err, "(set them in the environment or in", envFile+")")
		} else {
			fmt.Fprintln(os.Stderr, "fatal:", err)
		}
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
