package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/growtalk/internal/ai"
	"github.com/example/growtalk/internal/bot"
	"github.com/example/growtalk/internal/database"
	"github.com/example/growtalk/internal/excel"
	"github.com/example/growtalk/internal/scheduler"
	"github.com/example/growtalk/internal/session"
	"github.com/example/growtalk/internal/tutor"
	"github.com/joho/godotenv"
)

func main() {
	importFile := flag.String("import", "", "import content from an .xlsx workbook and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importFile != "" {
		runImport(*importFile)
		return
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	judge, err := ai.New()
	if err != nil {
		log.Fatalf("Failed to create judge client: %v", err)
	}

	b, err := bot.New(token, judge)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	core := tutor.New(session.NewMemoryStore(), database.NewProgressStore(), judge, b.Notifier())
	b.SetCore(core)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(b)
	if os.Getenv("ENABLE_SCHEDULER") != "false" {
		sched.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		sched.Stop()
		b.Stop()
		cancel()
	}()

	log.Println("GrowTalk tutor started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Printf("Bot error: %v", err)
	}
	log.Println("Bot stopped")
}

func runImport(path string) {
	result, err := excel.ImportContent(context.Background(), path)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Imported %d vocab items, %d passages, %d closed questions, %d open questions",
		result.VocabItems, result.Passages, result.ClosedQuestions, result.OpenQuestions)
	for _, msg := range result.Errors {
		log.Printf("Import warning: %s", msg)
	}
}
