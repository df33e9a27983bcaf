package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"inkboard/internal/engine"
	"inkboard/internal/store"
	"inkboard/internal/stroke"
	"inkboard/internal/ui"
)

func main() {
	boardFile := flag.String("board", "", "stroke snapshot to load at startup")
	verbose := flag.Bool("v", false, "enable engine debug logging")
	flag.Parse()

	if *verbose {
		engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	repo := store.New()
	if *boardFile != "" {
		loadBoard(repo, *boardFile)
	}

	ui.RunApp(repo)
}

func loadBoard(repo *store.Store, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("cannot open board file: %v", err)
		return
	}
	defer f.Close()

	strokes, dropped, err := stroke.Decode(f)
	if err != nil {
		log.Printf("cannot parse board file %s: %v", path, err)
		return
	}
	if dropped > 0 {
		log.Printf("dropped %d malformed stroke records from %s", dropped, path)
	}
	repo.Load(strokes)
	log.Printf("loaded %d strokes from %s", len(strokes), path)
}
