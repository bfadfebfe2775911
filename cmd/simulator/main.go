package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

const defaultPassword = "testpassword123"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:9999"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "seed":
		seedCmd(apiURL, args)
	case "match":
		matchCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Spark Simulator - Development tool for populating a local backend

USAGE:
  simulator <command> [options]

COMMANDS:
  seed      Register users with complete profiles and let them swipe on each other
  match     Create two users, match them and have them exchange messages
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:9999)

EXAMPLES:
  # Register 20 users who each swipe through one feed page
  simulator seed

  # Register 50 users, 70% of swipes are likes
  simulator seed --count=50 --like-ratio=0.7

  # Build a matched pair with a short conversation
  simulator match --messages=4`)
}

type seededUser struct {
	auth *AuthResponse
	user *User
}

var (
	firstNames  = []string{"Alex", "Sam", "Jordan", "Taylor", "Riley", "Casey", "Morgan", "Jamie", "Avery", "Quinn"}
	genders     = []string{"Male", "Female", "Other"}
	preferences = []string{"Male", "Female", "Both"}
	bios        = []string{"Coffee first.", "Weekend hiker.", "Ask me about my plants.", "Board games and bad puns.", ""}
)

func registerWithProfile(client *APIClient, rng *rand.Rand, prefix string, i int) (*seededUser, error) {
	email := fmt.Sprintf("%s_%d_%d@spark.local", prefix, time.Now().UnixNano()%100000, i)
	auth, err := client.Register(email, defaultPassword)
	if err != nil {
		return nil, err
	}

	dob := time.Now().AddDate(-(20 + rng.Intn(15)), -rng.Intn(12), -rng.Intn(28))
	user, err := client.UpdateProfile(auth.Token, map[string]string{
		"name":         firstNames[rng.Intn(len(firstNames))],
		"dateOfBirth":  dob.Format("2006-01-02"),
		"gender":       genders[rng.Intn(len(genders))],
		"interestedIn": preferences[rng.Intn(len(preferences))],
		"bio":          bios[rng.Intn(len(bios))],
	})
	if err != nil {
		return nil, err
	}

	return &seededUser{auth: auth, user: user}, nil
}

func seedCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	count := fs.Int("count", 20, "Number of users to register")
	likeRatio := fs.Float64("like-ratio", 0.5, "Fraction of swipes that are likes (0-1)")
	seed := fs.Int64("seed", time.Now().UnixNano(), "Random seed")
	fs.Parse(args)

	if *count < 2 {
		fmt.Println("Error: --count must be at least 2")
		os.Exit(1)
	}
	if *likeRatio < 0 || *likeRatio > 1 {
		fmt.Println("Error: --like-ratio must be between 0 and 1")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)
	rng := rand.New(rand.NewSource(*seed))

	fmt.Println("=== Spark Simulator: Seed ===")
	fmt.Println()
	fmt.Printf("Registering %d users:\n", *count)

	users := make([]*seededUser, 0, *count)
	for i := 0; i < *count; i++ {
		u, err := registerWithProfile(client, rng, "seed", i)
		if err != nil {
			fmt.Printf("  [%d] FAILED: %v\n", i+1, err)
			continue
		}
		users = append(users, u)
		fmt.Printf("  [%d] %s (%s, interested in %s)\n", i+1, u.user.Username, u.user.Gender, u.user.InterestedIn)
	}

	fmt.Println()
	fmt.Println("Swiping:")

	swipes, matches := 0, 0
	for _, u := range users {
		feed, err := client.Feed(u.auth.Token, 1, 20)
		if err != nil {
			fmt.Printf("  %s: feed failed: %v\n", u.user.Username, err)
			continue
		}

		for _, candidate := range feed.Users {
			direction := "left"
			if rng.Float64() < *likeRatio {
				direction = "right"
			}
			matched, err := client.Swipe(u.auth.Token, candidate.ID, direction)
			if err != nil {
				fmt.Printf("  %s: %v\n", u.user.Username, err)
				break
			}
			swipes++
			if matched {
				matches++
				fmt.Printf("  match: %s <-> %s\n", u.user.Username, candidate.Username)
			}
		}
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Users:   %d\n", len(users))
	fmt.Printf("Swipes:  %d\n", swipes)
	fmt.Printf("Matches: %d\n", matches)
	fmt.Printf("Password for every user: %s\n", defaultPassword)
}

func matchCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	messages := fs.Int("messages", 2, "Number of messages to exchange")
	fs.Parse(args)

	client := NewAPIClient(apiURL)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	fmt.Println("=== Spark Simulator: Match ===")
	fmt.Println()

	fmt.Print("Creating users... ")
	a, err := registerWithProfile(client, rng, "pair_a", 0)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	b, err := registerWithProfile(client, rng, "pair_b", 1)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%s, %s)\n", a.user.Username, b.user.Username)

	fmt.Print("Swiping right both ways... ")
	if _, err := client.Swipe(a.auth.Token, b.user.ID, "right"); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	matched, err := client.Swipe(b.auth.Token, a.user.ID, "right")
	if err != nil || !matched {
		fmt.Printf("FAILED\n  matched=%v error=%v\n", matched, err)
		os.Exit(1)
	}
	fmt.Println("OK (matched)")

	chat, err := client.StartChat(a.auth.Token, b.user.ID)
	if err != nil {
		fmt.Printf("Failed to start chat: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Chat: %s\n", chat.ID)

	for i := 0; i < *messages; i++ {
		sender := a
		if i%2 == 1 {
			sender = b
		}
		content := fmt.Sprintf("message %d from %s", i+1, sender.user.Username)
		if _, err := client.PostMessage(sender.auth.Token, chat.ID, content); err != nil {
			fmt.Printf("Failed to post message: %v\n", err)
			os.Exit(1)
		}
	}

	history, err := client.Messages(b.auth.Token, chat.ID)
	if err != nil {
		fmt.Printf("Failed to read messages: %v\n", err)
		os.Exit(1)
	}
	for _, m := range history {
		fmt.Printf("  %s\n", m.Content)
	}

	entries, err := client.Matches(a.auth.Token)
	if err != nil {
		fmt.Printf("Failed to list matches: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Matches for %s: %d\n", a.user.Username, len(entries))
	fmt.Printf("Log in as %s or %s with password %s\n", a.user.Email, b.user.Email, defaultPassword)
}
