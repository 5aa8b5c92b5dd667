package main

import (
	"flag"
	"fmt"
	"os"

	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/logger"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	"gitlab.com/dirk.krummacker/contact-book/migrations"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go up
// > go run main.go -config=../../config.toml force 1
func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "the TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("could not load configuration", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	command := "up"
	var args []string
	if flag.NArg() > 0 {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}
	if err := store.Migrate(logger.L, cfg.MySQL, migrations.FS, command, args); err != nil {
		logger.L.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
