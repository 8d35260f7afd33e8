package main

import (
	"context"
	"net/http"
	"os"

	"bitcoin-auth-probe/configs"
	"bitcoin-auth-probe/server"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	logger = logrus.New()
)

func main() {
	godotenv.Load()

	addr := envOr("SERVER_ADDRESS", configs.ServerAddress)
	s := server.NewServer(
		context.Background(),
		redis.NewClient(&redis.Options{Addr: envOr("REDIS_ADDRESS", configs.RedisAddress)}),
		logger,
	)
	defer s.Close()

	logger.Infof("Auth server running on http://%s%s", addr, configs.ProbeRequestPath)
	if err := http.ListenAndServe(addr, s.Router()); err != nil {
		logger.Fatalf("Error starting server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
