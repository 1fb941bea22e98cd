package main

import (
	"context"
	"log"

	"github.com/qlite/qlite/internal/qlitebench"
)

func main() {
	if err := qlitebench.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
