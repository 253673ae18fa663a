package main

import (
	"log"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/builder"
)

func main() {
	app, err := builder.Build()
	if err != nil {
		log.Fatalf("studyrag: build: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("studyrag: %v", err)
	}
}
