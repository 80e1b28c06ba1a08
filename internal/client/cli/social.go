package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// Feed shows one page of the social feed. "feed more" continues after the
// last shown page.
func (a *App) Feed(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		if args[0] == "more" {
			page = a.feedPage + 1
		} else if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			page = n
		} else {
			printlnFn("Usage: feed [page|more]")
			return errUsage
		}
	}

	res, err := a.postService.Feed(ctx, page)
	if err != nil {
		printlnFn("Could not load feed:", describe(err))
		return err
	}
	a.feedPage = res.Page

	for _, p := range res.Posts {
		printlnFn(a.postLine(p))
	}
	if res.HasMore {
		printlnFn("(more: feed more)")
	}
	return nil
}

func (a *App) postLine(p models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", p.ID)
	if p.AuthorDisplayName != "" {
		b.WriteString(p.AuthorDisplayName)
	} else {
		b.WriteString(p.AuthorID)
	}
	if p.Premium() {
		b.WriteString(" *")
	}
	fmt.Fprintf(&b, ": %s", p.Content)
	if p.RecipeTitle != "" {
		fmt.Fprintf(&b, " | recipe: %s", p.RecipeTitle)
	}
	fmt.Fprintf(&b, " | likes %d, comments %d", p.LikeCount, p.CommentCount)
	if p.LikedBy(a.userID) {
		b.WriteString(" (liked)")
	}
	return b.String()
}

func (a *App) Like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: like <postId>")
		return errUsage
	}
	p, err := a.postService.ToggleLike(ctx, args[0], a.userID)
	if err != nil {
		printlnFn("Could not update like:", describe(err))
		return err
	}
	printlnFn(a.postLine(p))
	return nil
}

func (a *App) Comment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: comment <postId>")
		return errUsage
	}
	text, err := getSimpleText(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		printlnFn("Empty comment, nothing sent")
		return nil
	}
	if _, err := a.commentService.Create(ctx, args[0], text); err != nil {
		printlnFn("Could not post comment:", describe(err))
		return err
	}
	if p, ok := a.feed.Get(args[0]); ok {
		printlnFn(a.postLine(p))
	} else {
		printlnFn("Comment posted")
	}
	return nil
}

func (a *App) Comments(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: comments <postId>")
		return errUsage
	}
	list, err := a.commentService.List(ctx, args[0])
	if err != nil {
		printlnFn("Could not load comments:", describe(err))
		return err
	}
	if len(list) == 0 {
		printlnFn("No comments")
	}
	for _, c := range list {
		author := c.AuthorDisplayName
		if author == "" {
			author = c.AuthorID
		}
		printlnFn(fmt.Sprintf("[%s] %s: %s", c.ID, author, c.Content))
	}
	return nil
}

func (a *App) Follow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: follow <userId>")
		return errUsage
	}
	if err := a.followService.Follow(ctx, args[0]); err != nil {
		printlnFn("Could not follow:", describe(err))
		return err
	}
	printlnFn("Following", args[0])
	return nil
}

func (a *App) Unfollow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: unfollow <userId>")
		return errUsage
	}
	if err := a.followService.Unfollow(ctx, args[0]); err != nil {
		printlnFn("Could not unfollow:", describe(err))
		return err
	}
	printlnFn("Unfollowed", args[0])
	return nil
}
