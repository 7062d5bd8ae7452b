package main

import (
	"context"
	"log"
)

func main() {
	ctx := context.Background()

	d, err := setup(ctx)
	if err != nil {
		log.Panic(err)
	}

	if err := d.Run(ctx); err != nil {
		log.Panic(err)
	}
}
