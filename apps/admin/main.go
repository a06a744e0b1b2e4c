package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
	logsvc "github.com/2023UCA1802/Infosys-Study-AI-Recommender/services/logger"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
	mongorepos "github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database/mongodb"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	rollbarLogger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	defer rollbarLogger.Close()
	logger = rollbarLogger

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up DB
	client, db, err := database.Open(context.Background(), conf)
	errAndDie(err)
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect", err)
		}
	}()

	// start CLI
	cli := commandLine{
		conf:     conf,
		db:       db,
		usrSvc:   user.NewService(mongorepos.NewUserRepository(db), nil, nil), // codes & sessions are not used here
		validate: validate,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		rollbarLogger.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
