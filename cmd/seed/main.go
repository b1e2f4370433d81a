// Package main provides a tool to seed the database with demo reading data.
//
// This creates demo users with libraries, reading statuses, follows, and
// likes to exercise the feed, and prints a bearer token per user for use
// against a local server.
//
// Usage:
//
//	DATA_PATH=~/PaperTrail/data go run ./cmd/seed
//	DATA_PATH=~/PaperTrail/data go run ./cmd/seed --reset  # Drop demo users first
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/auth"
	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/service"
	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
)

var reset = flag.Bool("reset", false, "Delete demo users and their data before seeding")

type demoUser struct {
	id          string
	username    string
	displayName string
}

var demoUsers = []demoUser{
	{"user_demo_alice", "alice", "Alice Zhang"},
	{"user_demo_bob", "bob", "Bob Moreira"},
	{"user_demo_carol", "carol", "Carol Okafor"},
}

type demoPaper struct {
	openalexID string
	title      string
	authors    []string
	year       int
}

var demoPapers = []demoPaper{
	{"W2741809807", "Attention Is All You Need", []string{"Ashish Vaswani", "Noam Shazeer", "Niki Parmar"}, 2017},
	{"W2963446712", "Deep Residual Learning for Image Recognition", []string{"Kaiming He", "Xiangyu Zhang"}, 2016},
	{"W2964121744", "BERT: Pre-training of Deep Bidirectional Transformers", []string{"Jacob Devlin", "Ming-Wei Chang"}, 2019},
	{"W3098772845", "Language Models are Few-Shot Learners", []string{"Tom Brown", "Benjamin Mann"}, 2020},
	{"W4226062521", "Training Compute-Optimal Large Language Models", []string{"Jordan Hoffmann", "Sebastian Borgeaud"}, 2022},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/PaperTrail/data")
	}

	dbPath := filepath.Join(dataPath, "papertrail.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	key, err := auth.LoadOrGenerateKey(dataPath)
	if err != nil {
		log.Fatalf("Failed to load auth key: %v", err)
	}
	tokens, err := auth.NewTokenService(key)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	// An unstarted manager drops events, which is what we want here.
	sseManager := sse.NewManager(logger)

	profiles := service.NewProfileService(st, sseManager, logger)
	library := service.NewLibraryService(st, sseManager, logger)
	social := service.NewSocialService(st, sseManager, logger)
	reactions := service.NewReactionService(st, sseManager, logger)

	ctx := context.Background()

	if *reset {
		for _, u := range demoUsers {
			if err := profiles.DeleteUser(ctx, u.id); err != nil {
				fmt.Printf("  Reset skipped for %s: %v\n", u.username, err)
			} else {
				fmt.Printf("  Removed %s and all their data\n", u.username)
			}
		}
	}

	// Create users.
	for _, u := range demoUsers {
		profile, err := profiles.OnUserJoined(ctx, u.id, u.username)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", u.username, err)
		}
		if profile.DisplayName == "" {
			name := u.displayName
			if _, err := profiles.UpdateProfile(ctx, u.id, service.ProfileUpdate{DisplayName: &name}); err != nil {
				log.Fatalf("Failed to set display name for %s: %v", u.username, err)
			}
		}
		fmt.Printf("Created user %s (%s)\n", u.username, u.id)
	}

	// Alice reads broadly, bob and carol each track a couple of papers.
	seedLibrary(ctx, library, demoUsers[0].id, demoPapers, map[string]domain.ReadingStatus{
		"W2741809807": domain.StatusRead,
		"W2963446712": domain.StatusRead,
		"W2964121744": domain.StatusReading,
	})
	seedLibrary(ctx, library, demoUsers[1].id, demoPapers[:3], map[string]domain.ReadingStatus{
		"W2741809807": domain.StatusReading,
	})
	seedLibrary(ctx, library, demoUsers[2].id, demoPapers[2:], nil)

	// Follow graph: everyone follows alice, alice follows bob.
	follows := [][2]string{
		{demoUsers[1].id, demoUsers[0].id},
		{demoUsers[2].id, demoUsers[0].id},
		{demoUsers[0].id, demoUsers[1].id},
	}
	for _, f := range follows {
		if err := social.Follow(ctx, f[0], f[1]); err != nil {
			log.Fatalf("Failed to follow: %v", err)
		}
	}
	fmt.Printf("Created %d follow edges\n", len(follows))

	// Bob likes alice's most recent activity.
	posts, err := st.ListPostsByAuthor(ctx, demoUsers[0].id, 1)
	if err != nil {
		log.Fatalf("Failed to list posts: %v", err)
	}
	if len(posts) > 0 {
		if _, _, err := reactions.ToggleLike(ctx, posts[0].ID, demoUsers[1].id); err != nil {
			log.Fatalf("Failed to like post: %v", err)
		}
		fmt.Printf("bob liked post %s\n", posts[0].ID)
	}

	fmt.Println("\nBearer tokens (valid 24h):")
	for _, u := range demoUsers {
		token, err := tokens.Issue(u.id, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue token for %s: %v", u.username, err)
		}
		fmt.Printf("  %-6s %s\n", u.username, token)
	}

	fmt.Println("\nDone.")
}

func seedLibrary(ctx context.Context, library *service.LibraryService, userID string, papers []demoPaper, statuses map[string]domain.ReadingStatus) {
	for _, p := range papers {
		paper := &domain.Paper{
			OpenAlexID: p.openalexID,
			Title:      p.title,
			Authors:    p.authors,
			Year:       p.year,
			Source:     domain.DefaultPaperSource,
		}
		if _, err := library.AddToLibrary(ctx, userID, paper); err != nil {
			log.Fatalf("Failed to add %s for %s: %v", p.openalexID, userID, err)
		}
		if status, ok := statuses[p.openalexID]; ok {
			if err := library.SetStatus(ctx, userID, p.openalexID, status); err != nil {
				log.Fatalf("Failed to set status on %s: %v", p.openalexID, err)
			}
		}
	}
	fmt.Printf("Seeded %d papers for %s\n", len(papers), userID)
}
