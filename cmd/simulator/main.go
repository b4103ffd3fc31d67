package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "simulator",
		Usage: "Development tool that drives a running postboard server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Backend base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"API_URL"},
			},
		},
		Commands: []*cli.Command{
			seedCmd(),
			likeStormCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Register users, give each a post and have everyone like the first one",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "users", Value: 5, Usage: "Number of users to create"},
		},
		Action: func(c *cli.Context) error {
			count := c.Int("users")
			if count < 1 {
				return fmt.Errorf("--users must be at least 1")
			}
			client := NewAPIClient(c.String("api-url"))

			fmt.Println("=== Simulator: Seed ===")
			fmt.Println()

			tokens := make([]string, 0, count)
			var first *Post
			for i := 0; i < count; i++ {
				user, token, err := client.RegisterUser(fmt.Sprintf("Writer%d", i+1))
				if err != nil {
					return fmt.Errorf("[%d/%d] failed to create user: %w", i+1, count, err)
				}
				post, err := client.CreatePost(token, fmt.Sprintf("Hello from %s", user.Name), "Seeded by the simulator")
				if err != nil {
					return fmt.Errorf("[%d/%d] failed to create post: %w", i+1, count, err)
				}
				if first == nil {
					first = post
				}
				tokens = append(tokens, token)
				fmt.Printf("  [%d/%d] %s registered (post %s)\n", i+1, count, user.Email, post.ID)
			}

			var result *LikeResult
			for _, token := range tokens {
				var err error
				result, err = client.ToggleLike(token, first.ID)
				if err != nil {
					return err
				}
			}

			fmt.Println()
			fmt.Printf("Post %s now has %d like(s)\n", first.ID, result.Likes)
			return nil
		},
	}
}

func likeStormCmd() *cli.Command {
	return &cli.Command{
		Name:  "likestorm",
		Usage: "Have many users toggle a like on one post concurrently and verify none were lost",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "users", Value: 20, Usage: "Number of concurrent likers"},
		},
		Action: func(c *cli.Context) error {
			count := c.Int("users")
			if count < 1 {
				return fmt.Errorf("--users must be at least 1")
			}
			client := NewAPIClient(c.String("api-url"))

			fmt.Println("=== Simulator: Like Storm ===")
			fmt.Println()

			_, ownerToken, err := client.RegisterUser("StormOwner")
			if err != nil {
				return err
			}
			post, err := client.CreatePost(ownerToken, "Storm target", "Like me")
			if err != nil {
				return err
			}

			tokens := make([]string, count)
			for i := range tokens {
				_, tokens[i], err = client.RegisterUser(fmt.Sprintf("Liker%d", i+1))
				if err != nil {
					return err
				}
			}
			fmt.Printf("Registered %d likers, target post %s\n", count, post.ID)

			var wg sync.WaitGroup
			errs := make(chan error, count)
			for _, token := range tokens {
				wg.Add(1)
				go func(token string) {
					defer wg.Done()
					if _, err := client.ToggleLike(token, post.ID); err != nil {
						errs <- err
					}
				}(token)
			}
			wg.Wait()
			close(errs)

			failed := 0
			for err := range errs {
				failed++
				fmt.Printf("  like failed: %v\n", err)
			}

			// Toggle on and back off with the owner to read the final count.
			if _, err := client.ToggleLike(ownerToken, post.ID); err != nil {
				return err
			}
			final, err := client.ToggleLike(ownerToken, post.ID)
			if err != nil {
				return err
			}

			want := count - failed
			fmt.Printf("Expected %d like(s), server reports %d\n", want, final.Likes)
			if final.Likes != want {
				return fmt.Errorf("lost %d like(s)", want-final.Likes)
			}
			fmt.Println("OK")
			return nil
		},
	}
}
