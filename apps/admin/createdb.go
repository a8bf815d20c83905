package main

import (
	"github.com/trezcool/kumbuka/storage/database"
)

var createDBFunc = database.CreateIfNotExist // mockable

func (cli *commandLine) createDB() error {
	return createDBFunc(cli.conf)
}
