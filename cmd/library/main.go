package main

import (
	"flag"
	stdLog "log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/Lank-karim/test-gestion-Biblioth-que/app"
	"github.com/Lank-karim/test-gestion-Biblioth-que/config"
)

//	@title			Library API
//	@version		1.0
//	@description	Book, reader and reservation management.

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := app.Run(cfg); err != nil {
			stdLog.Fatal(err)
		}
	case "migrate":
		if err := app.Migrate(cfg); err != nil {
			stdLog.Fatal(err)
		}
	case "createadmin":
		fs := flag.NewFlagSet("createadmin", flag.ExitOnError)
		name := fs.String("name", "", "admin display name")
		email := fs.String("email", "", "admin email (login)")
		password := fs.String("password", "", "admin password")
		_ = fs.Parse(os.Args[2:]) //nolint:errcheck
		if *email == "" || *password == "" {
			stdLog.Fatal("createadmin: -email and -password are required")
		}
		if *name == "" {
			*name = *email
		}
		if err := app.CreateAdmin(cfg, *name, *email, *password); err != nil {
			stdLog.Fatal(err)
		}
	default:
		stdLog.Fatalf("unknown command %q (want serve, migrate or createadmin)", cmd)
	}
}
