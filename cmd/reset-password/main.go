// Command reset-password sets a user's password from the command line, for
// operators locked out of the API.
//
//	reset-password -email admin@stockroom.local -password <new password>
package main

import (
	"flag"
	"os"

	"stockroom/internal/repository"
	"stockroom/pkg/database"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new password (min 8 characters)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if len(*password) < 8 {
		log.Fatal().Msg("password must be at least 8 characters")
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}

	db := database.ConnectDB()
	userRepo := repository.NewUserRepo(db)

	user, err := userRepo.FindByEmail(*email)
	if err != nil {
		log.Fatal().Str("email", *email).Msg("user not found")
	}
	if err := user.SetPassword(*password); err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}
	if err := userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		log.Fatal().Err(err).Msg("failed to update password")
	}

	log.Info().Str("email", *email).Msg("password updated")
}
