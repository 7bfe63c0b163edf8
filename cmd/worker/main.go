package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker generate <request.json> | worker prune")
	}

	switch os.Args[1] {
	case "generate":
		RunGenerate(os.Args[2:])
	case "prune":
		RunPrune()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
