package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/sanity-io/litter"

	"github.com/lazharichir/threethirteen/room"
	"github.com/lazharichir/threethirteen/server"
)

func main() {
	fmt.Println("Starting Three-Thirteen Game Server...")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	manager := room.NewManager(rng)

	debug := os.Getenv("THIRTEEN_DEBUG") == "1"
	manager.OnEvent(func(event room.Event) {
		log.Printf("event %s room=%s", event.Name(), room.ExtractRoomID(event))
		if debug {
			litter.D(event)
		}
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	s := server.NewServer(manager)
	if err := s.Start(port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
