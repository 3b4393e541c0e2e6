package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func loadEnvFiles() {
	// Do not override environment provided by the runtime.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
