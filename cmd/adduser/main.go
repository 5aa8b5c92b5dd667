package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// Creates a user and prints the API token that authenticates the user's requests.
//
// Usage example on the command line:
// > DBUSER=dirk DBPWD=bullo92 go run main.go -name="Erika Mustermann" -email=erika@example.com
func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "the TOML configuration file")
	name := flag.String("name", "", "the name of the user")
	email := flag.String("email", "", "the unique email address of the user")
	flag.Parse()
	if *name == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("could not load configuration", err)
		os.Exit(1)
	}
	sqlDB, err := store.CreateDatabase(cfg.MySQL)
	if err != nil {
		fmt.Println("could not open database", err)
		os.Exit(1)
	}
	st, err := store.New(sqlDB)
	if err != nil {
		fmt.Println("could not prepare statements", err)
		os.Exit(1)
	}
	defer st.Close()

	user := model.User{
		Name:     *name,
		Email:    *email,
		ApiToken: uuid.NewString(),
	}
	if err := st.CreateUser(context.Background(), &user); err != nil {
		fmt.Println("could not create user", err)
		os.Exit(1)
	}
	fmt.Printf("user %d created, API token: %s\n", user.Id, user.ApiToken)
}
