package main

import (
	"context"
	"log"

	"github.com/qlite/qlite/internal/qlitecsv"
)

func main() {
	if err := qlitecsv.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
