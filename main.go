package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/lunaqr/lunaqr/internal/config"
	"github.com/lunaqr/lunaqr/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	h := handlers.New(cfg)
	h.Routes(r)

	addr := ":" + cfg.Port
	log.Printf("lunaqr listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
