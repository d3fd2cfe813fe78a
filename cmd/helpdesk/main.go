package main

import (
	"log"

	"github.com/autana/helpdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
