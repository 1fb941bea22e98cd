package main

import (
	"context"
	"log"

	"github.com/qlite/qlite/internal/qlite"
)

func main() {
	if err := qlite.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
