package main

import (
	"flag"
	"fmt"
	"os"

	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/contacts"
	"gitlab.com/dirk.krummacker/contact-book/internal/logger"
	"gitlab.com/dirk.krummacker/contact-book/internal/service"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// Usage example on the command line:
// > PORT=8080 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "the TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("could not load configuration", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.L

	sqlDB, err := store.CreateDatabase(cfg.MySQL)
	if err != nil {
		log.Error("could not open database", "error", err)
		os.Exit(1)
	}
	st, err := store.New(sqlDB)
	if err != nil {
		log.Error("could not prepare statements", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	svc := contacts.NewService(log, st, cfg.Contacts.PageSize)
	router := service.SetupHttpRouter(log, svc, st, cfg.Server.RequestLogging)
	log.Info("contacts service listening", "addr", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
