package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-rooms/internal"
	"chat-rooms/repositories"
	"chat-rooms/runtime"
	"chat-rooms/runtime/workers"
	"chat-rooms/services"
	"chat-rooms/sink"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and centralizes error reporting, so
// every defer (database close, index close) executes before the process
// exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB) & search index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = blugeWriter.Close()
	}()

	// 3. Repositories
	userRepository := repositories.NewUserRepository(db)
	roomRepository := repositories.NewRoomRepository(db)
	memberRepository := repositories.NewMemberRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log)
	searchRepository := repositories.NewSearchRepository(blugeWriter)

	// 4. Engine & supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	engine := runtime.NewEngine(log, sup, registry, config.BufferSize, config.SinkTimeout)

	// 5. Services, publishing into the engine. The services are what a
	// transport would call; the daemon itself only runs the reactive
	// machinery around them.
	chat := services.NewChat(
		services.NewUserService(userRepository, engine),
		services.NewRoomService(roomRepository, userRepository, engine),
		services.NewDirectoryService(roomRepository, userRepository, memberRepository, messageRepository),
		services.NewReadService(memberRepository, engine),
		services.NewMessageService(messageRepository, memberRepository,
			userRepository, searchRepository, engine, log, config.MessageLimit),
	)
	log.Info("Chat services ready")

	engine.AddSinks(sink.NewLogSink(log))
	engine.AddWorkers(workers.NewPresenceSweeper(log, userRepository, engine,
		config.PresenceSweepInterval, config.PresenceStaleAfter))

	// 6. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine.Start(ctx)

	// 7. Debug inspector (read-only, diagnostics only)
	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, "/inspect", chatMapper, func() map[string]any {
			stats := map[string]any{
				"Subscriptions": registry.Len(),
				"Time":          time.Now().UTC().Format(time.RFC822),
			}
			if users, err := chat.Users.List(); err == nil {
				stats["Users"] = len(users)
			}
			if rooms, err := roomRepository.List(); err == nil {
				stats["Rooms"] = len(rooms)
			}
			return stats
		})
		log.Info("Debug inspector started", "url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
	}

	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	engine.Stop()
	log.Info("Program stopped cleanly")
	return nil
}

// chatMapper renders any store record for the inspector by decoding the
// CBOR payload generically, without tying the debug page to the record
// structs.
func chatMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)

	var fields map[string]any
	if err := cbor.Unmarshal(val, &fields); err != nil {
		return row
	}

	for _, candidate := range []string{"at", "last_seen", "joined_at", "last_message_time"} {
		// CBOR hands positive integers back as uint64.
		if nanos, ok := fields[candidate].(uint64); ok && nanos > 0 {
			row.Timestamp = time.Unix(0, int64(nanos)).UTC().Format(time.RFC822)
			break
		}
	}

	var details []string
	for _, candidate := range []string{"name", "email", "content", "kind", "role", "user_id"} {
		if s, ok := fields[candidate].(string); ok && s != "" {
			details = append(details, s)
		}
	}
	row.Detail = strings.Join(details, " | ")
	return row
}
