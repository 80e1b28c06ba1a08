package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Recipes(ctx context.Context) error
	Recipe(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Feed(ctx context.Context, args []string) error
	Like(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	Comments(ctx context.Context, args []string) error
	Follow(ctx context.Context, args []string) error
	Unfollow(ctx context.Context, args []string) error
	CacheStatus(ctx context.Context) error
	ClearCache(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, cache, clearcache, exit"
	helpLoggedIn  = "Available commands: recipes, recipe <id>, search <text>, feed [page|more], like <postId>, " +
		"comment <postId>, comments <postId>, follow <userId>, unfollow <userId>, cache, clearcache, logout, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// Handlers report their own errors to the user, so returned errors are
// ignored here. The loop ends on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rk %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "r", "recipes":
			_ = a.Recipes(ctx)

		case "recipe":
			_ = a.Recipe(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "feed":
			_ = a.Feed(ctx, args)

		case "like":
			_ = a.Like(ctx, args)

		case "comment":
			_ = a.Comment(ctx, args)

		case "comments":
			_ = a.Comments(ctx, args)

		case "follow":
			_ = a.Follow(ctx, args)

		case "unfollow":
			_ = a.Unfollow(ctx, args)

		case "cache":
			_ = a.CacheStatus(ctx)

		case "clearcache":
			_ = a.ClearCache(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
