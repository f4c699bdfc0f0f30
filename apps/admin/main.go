package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/zawadi/shule/core"
	"github.com/zawadi/shule/core/staff"
	"github.com/zawadi/shule/core/student"
	"github.com/zawadi/shule/storage/database"
	postgresdb "github.com/zawadi/shule/storage/database/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	validate := validator.New()
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	core.InitValidators(validate, translator)
	staff.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	staffRepo := postgresdb.NewStaffRepository(db)
	studentRepo := postgresdb.NewStudentRepository(db)

	// start CLI
	cli := commandLine{
		db:         db,
		staffRepo:  staffRepo,
		studentSvc: student.NewService(studentRepo, validate, translator),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
