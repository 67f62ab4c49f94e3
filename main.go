package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	c "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/core"
	"github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/dataset"
	r "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/repos"
)

func main() {
	prepareDataset := flag.Bool("prepare-dataset", false, "run the Excel to CSV preprocessing pipeline instead of serving")
	flag.Parse()

	// load in environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	if *prepareDataset {
		var fetcher *dataset.Fetcher
		if host := envOr("DATASET_HOST", dataset.DefaultHost); host != "" {
			fetcher = dataset.ClientFactory(host, 60*time.Second)
		}
		if err := dataset.PrepareDatasetPipeline(
			fetcher,
			envOr("DATASET_REMOTE_PATH", dataset.DefaultRemotePath),
			envOr("DATASET_EXCEL_FILE", dataset.DefaultExcelFile),
			envOr("DATASET_EXPORT_DIR", dataset.DefaultExportDir),
			envOr("DATASET_OUTPUT", dataset.DefaultOutput),
		); err != nil {
			log.Fatalf("dataset preprocessing failed: %v", err)
		}
		return
	}

	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	history, cleanup, err := getHistoryStore(ctx)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer cleanup()

	if err := history.EnsureInitialized(ctx); err != nil {
		log.Fatalf("failed to initialize history store: %v", err)
	}

	sc := &c.ServiceContext{
		Context: ctx,
		History: history,
	}

	s := c.GetHttpServer(sc, os.Getenv("ADDR"))

	go func() {
		log.Printf("Starting SIR simulation server on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped successfully")
}

// getHistoryStore picks the backend: Postgres when DATABASE_URL is set, the
// canonical CSV file otherwise.
func getHistoryStore(ctx context.Context) (r.History, func(), error) {
	if connString := os.Getenv("DATABASE_URL"); connString != "" {
		pg, err := r.GetPostgresConnection(ctx, connString)
		if err != nil {
			return nil, nil, err
		}
		log.Println("using the Postgres history backend")
		return pg, pg.Close, nil
	}

	path := envOr("HISTORY_FILE", "data/history.csv")
	log.Printf("using the CSV history backend at %s", path)
	return r.NewCSVHistory(path), func() {}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
