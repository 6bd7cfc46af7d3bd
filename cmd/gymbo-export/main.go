package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/gymbo/internal/builder"
	"github.com/claude/gymbo/internal/bundle"
	"github.com/claude/gymbo/internal/community"
	"github.com/claude/gymbo/internal/models"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	inPath := flag.String("in", "", "path to workout JSON file ('-' reads stdin)")
	fromServer := flag.String("from-server", "", "base URL of a running gymbo server to fetch from")
	workoutID := flag.String("workout", "", "saved workout id to fetch (with -from-server)")
	userID := flag.String("user", "local", "user id to fetch workouts as (with -from-server)")
	outDir := flag.String("out", ".", "directory to write the .gymbo bundle into")
	stdout := flag.Bool("stdout", false, "write the bundle to stdout instead of a file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymbo-export", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *inPath == "" && *fromServer == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymbo-export -in workout.json [-out dir] [-stdout]\n")
		fmt.Fprintf(os.Stderr, "       gymbo-export -from-server http://host:8080 -workout <id> [-user id]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var data []byte
	var err error
	switch {
	case *fromServer != "":
		if *workoutID == "" {
			log.Error("-from-server requires -workout")
			os.Exit(1)
		}
		data, err = fetchWorkout(*fromServer, *userID, *workoutID)
	case *inPath == "-":
		data, err = io.ReadAll(os.Stdin)
	default:
		data, err = os.ReadFile(*inPath)
	}
	if err != nil {
		log.Error("reading workout", "error", err)
		os.Exit(1)
	}

	var w models.Workout
	if err := json.Unmarshal(data, &w); err != nil {
		log.Error("decoding workout", "error", err)
		os.Exit(1)
	}
	if !w.WorkoutType.Valid() {
		w.WorkoutType = models.WorkoutStandard
	}
	w.DefaultRestTime = builder.ClampRest(w.DefaultRestTime)

	doc, err := bundle.Export(w, time.Now(), Version)
	if err != nil {
		log.Error("export failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Error("encoding bundle", "error", err)
		os.Exit(1)
	}

	if *stdout {
		fmt.Println(string(out))
		return
	}

	filename := bundle.SanitizeFilename(w.Name)
	path := filepath.Join(*outDir, filename)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		log.Error("writing bundle", "path", path, "error", err)
		os.Exit(1)
	}
	log.Info("bundle written", "path", path, "exercises", len(doc.Workouts[0].Exercises))
}

// fetchWorkout pulls the user's saved workouts from a running server and
// returns the payload of the one matching id.
func fetchWorkout(baseURL, userID, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := community.NewClient(baseURL, userID)
	rows, err := client.UserWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	for _, row := range rows {
		if row.ID.String() == id {
			return row.Payload, nil
		}
	}
	return nil, fmt.Errorf("workout %s not found", id)
}
