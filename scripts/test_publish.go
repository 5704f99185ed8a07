//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type AnalysisRequestedEvent struct {
	JobID     uuid.UUID `json:"job_id"`
	Place     string    `json:"place"`
	ProfileID string    `json:"profile_id,omitempty"`
	Policy    string    `json:"policy,omitempty"`
	Refresh   bool      `json:"refresh,omitempty"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	place := flag.String("place", "Lviv", "place to analyse")
	policy := flag.String("policy", "", "planting policy: auto, coverage, aqi")
	refresh := flag.Bool("refresh", false, "bypass cached results")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := AnalysisRequestedEvent{
		JobID:   uuid.New(),
		Place:   *place,
		Policy:  *policy,
		Refresh: *refresh,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Позиция хвоста done-стрима до публикации, чтобы не читать старые ответы
	lastID := "$"
	if msgs, err := client.XRevRangeN(ctx, "stream:landcover:done", "+", "-", 1).Result(); err == nil && len(msgs) > 0 {
		lastID = msgs[0].ID
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:landcover:analyze",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream:     stream:landcover:analyze\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Job ID:     %s\n", event.JobID)
	fmt.Printf("   Place:      %s\n", event.Place)

	fmt.Printf("\nWaiting for response in stream:landcover:done...\n")

	deadline := time.Now().Add(2 * time.Minute)
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{"stream:landcover:done", lastID},
			Count:   10,
			Block:   5 * time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Printf("read failed: %v", err)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var response map[string]interface{}
				if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
					continue
				}
				if response["job_id"] != event.JobID.String() {
					continue
				}

				fmt.Printf("\nResponse received\n")
				pretty, _ := json.MarshalIndent(response, "", "  ")
				fmt.Printf("%s\n", pretty)
				return
			}
		}
	}
	fmt.Println("Timeout waiting for response")
}
