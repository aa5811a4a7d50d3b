package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdf-chat/internal/chunker"
	"pdf-chat/internal/config"
	"pdf-chat/internal/embedding"
	"pdf-chat/internal/helper"
	"pdf-chat/internal/ingest"
	"pdf-chat/internal/parser"
	"pdf-chat/internal/rag"
	"pdf-chat/internal/vectorstore/postgres"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	filePath := flag.String("file", "", "Path to the document file to ingest")
	query := flag.String("query", "", "Query to be answered")
	chat := flag.Bool("chat", false, "Interactive chat session")
	page := flag.Int("page", -1, "Print one PDF page (0-based), requires -file")
	reset := flag.Bool("reset", false, "Drop and recreate the documents table before ingesting")
	dryRun := flag.Bool("dry-run", false, "Chunk the document and report, do not embed or store")
	flag.Parse()

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	ctx := context.Background()

	switch {
	case *page >= 0 && *filePath != "":
		showPage(*filePath, *page)
	case *filePath != "" && *dryRun:
		dryRunFile(cfg, *filePath)
	case *filePath != "":
		ingestFile(ctx, cfg, *filePath, *reset)
	case *query != "":
		answerQuery(ctx, cfg, *query)
	case *chat:
		chatLoop(ctx, cfg)
	default:
		log.Fatal().Msg("Provide a document with -file, a question with -query, or start a session with -chat")
	}
}

func newStore(ctx context.Context, cfg *config.Config, reset bool) *postgres.Store {
	dbClient, err := postgres.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	store := postgres.NewStore(dbClient, &cfg.Database, cfg.RAG.VectorSize)
	if reset {
		if err := store.Reset(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error resetting database")
		}
	} else if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	return store
}

func newChunker(cfg *config.Config) *chunker.Chunker {
	c, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid chunking parameters")
	}
	return c
}

func ingestFile(ctx context.Context, cfg *config.Config, filePath string, reset bool) {
	store := newStore(ctx, cfg, reset)
	defer store.Close()

	pipeline := ingest.NewPipeline(newChunker(cfg), embedding.NewClient(&cfg.EmbedLLM), store, cfg.RAG.BatchSize)
	n, err := pipeline.IngestFile(ctx, filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting document")
	}
	fmt.Printf("Embedded and stored %d chunks from %s\n", n, filePath)
}

func dryRunFile(cfg *config.Config, filePath string) {
	text, err := parser.ExtractText(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing document")
	}
	chunks := newChunker(cfg).Split(text)
	log.Info().Int("chunks", len(chunks)).Int("characters", len(text)).Msg("Dry run")
	helper.PrettyPrint(chunks)
}

func answerQuery(ctx context.Context, cfg *config.Config, query string) {
	store := newStore(ctx, cfg, false)
	defer store.Close()

	r := rag.NewRAG(store, embedding.NewClient(&cfg.EmbedLLM), cfg)
	response, err := r.Query(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Source)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Content)
}

func chatLoop(ctx context.Context, cfg *config.Config) {
	store := newStore(ctx, cfg, false)
	defer store.Close()

	r := rag.NewRAG(store, embedding.NewClient(&cfg.EmbedLLM), cfg)
	log.Info().Str("session", r.SessionID()).Msg("Chat session started, empty line to exit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}
		response, err := r.Answer(ctx, query)
		if err != nil {
			log.Error().Err(err).Msg("Error generating response")
			continue
		}
		fmt.Printf("%s\n\n", response)
	}
}

func showPage(filePath string, page int) {
	count, err := parser.PageCount(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading PDF")
	}
	text, err := parser.PageText(filePath, page)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading PDF page")
	}
	fmt.Printf("Page %d of %d\n\n%s\n", page+1, count, text)
}
