package main

import (
	"log"
)

// Build metadata injected at compile time through ldflags.
var (
	GitCommit string
	GitTag    string
	BuildTime string
)

func main() {
	app, err := NewApp()
	if err != nil {
		log.Fatal("bookstand api failed to initialize: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("bookstand api exited. check logs for more details. ", err)
	}
}
