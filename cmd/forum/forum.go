// Package forum implements the community forum commands.
package forum

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leaflens/leaflens-go/internal/app"
	"github.com/leaflens/leaflens-go/internal/conf"
	"github.com/leaflens/leaflens-go/internal/errors"
	"github.com/leaflens/leaflens-go/internal/model"
	"github.com/leaflens/leaflens-go/internal/reconcile"
)

// Command creates the forum command tree.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forum",
		Short: "Read and write community forum posts",
	}

	cmd.AddCommand(
		listCommand(settings),
		postCommand(settings),
		repliesCommand(settings),
		replyCommand(settings),
		likeCommand(settings),
	)
	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List forum posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			posts, err := a.Client.ListForumPosts(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range reconcile.SortByRecency(posts) {
				fmt.Printf("%d  %s  (%d likes, by user %d)\n", p.PostID, p.Title, p.LikeCount, p.UserID)
			}
			return nil
		},
	}
}

func postCommand(settings *conf.Settings) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.Sessions.Current()
			if s == nil {
				return errors.Newf("sign in to post").
					Category(errors.CategoryValidation).
					Component("session").
					Build()
			}

			created, err := a.Client.CreateForumPost(cmd.Context(), model.ForumPost{
				UserID:  s.UserID,
				Title:   title,
				Content: content,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Posted %d: %s\n", created.PostID, created.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&content, "content", "", "Post body")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func repliesCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "replies <post id>",
		Short: "List the replies under a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			replies, err := a.Client.ListForumReplies(cmd.Context(), postID)
			if err != nil {
				return err
			}
			if len(replies) == 0 {
				fmt.Println("No replies")
				return nil
			}
			for _, r := range replies {
				fmt.Printf("%d  user %d: %s\n", r.ReplyID, r.UserID, r.Content)
			}
			return nil
		},
	}
}

func replyCommand(settings *conf.Settings) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "reply <post id>",
		Short: "Reply to a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.Sessions.Current()
			if s == nil {
				return errors.Newf("sign in to reply").
					Category(errors.CategoryValidation).
					Component("session").
					Build()
			}

			created, err := a.Client.CreateForumReply(cmd.Context(), postID, model.ForumReply{
				PostID:  postID,
				UserID:  s.UserID,
				Content: content,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Replied %d to post %d\n", created.ReplyID, postID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Reply body")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func likeCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "like <post id>",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			a, err := app.New(settings)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Client.LikeForumPost(cmd.Context(), postID); err != nil {
				return err
			}
			fmt.Printf("Liked post %d\n", postID)
			return nil
		},
	}
}
