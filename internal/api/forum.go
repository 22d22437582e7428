package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/leaflens/leaflens-go/internal/model"
)

// ListForumPosts returns all forum posts.
func (c *Client) ListForumPosts(ctx context.Context) ([]model.ForumPost, error) {
	payload, err := c.Call(ctx, http.MethodGet, "/forum_posts/", nil)
	if err != nil {
		return nil, err
	}
	var posts []model.ForumPost
	if err := payload.Decode(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreateForumPost publishes a new post.
func (c *Client) CreateForumPost(ctx context.Context, post model.ForumPost) (*model.ForumPost, error) {
	payload, err := c.Call(ctx, http.MethodPost, "/forum_posts/", post)
	if err != nil {
		return nil, err
	}
	var created model.ForumPost
	if err := payload.Decode(&created); err != nil {
		return nil, err
	}
	logger.Info("forum post created", "post_id", created.PostID, "user_id", created.UserID)
	return &created, nil
}

// DeleteForumPost removes a post.
func (c *Client) DeleteForumPost(ctx context.Context, postID int) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/forum_posts/%d", postID), nil)
	return err
}

// ListForumReplies returns the replies under a post.
func (c *Client) ListForumReplies(ctx context.Context, postID int) ([]model.ForumReply, error) {
	payload, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/forum_posts/%d/replies", postID), nil)
	if err != nil {
		return nil, err
	}
	var replies []model.ForumReply
	if err := payload.Decode(&replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// CreateForumReply adds a reply under a post.
func (c *Client) CreateForumReply(ctx context.Context, postID int, reply model.ForumReply) (*model.ForumReply, error) {
	payload, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/forum_posts/%d/replies", postID), reply)
	if err != nil {
		return nil, err
	}
	var created model.ForumReply
	if err := payload.Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// LikeForumPost increments a post's like counter.
func (c *Client) LikeForumPost(ctx context.Context, postID int) error {
	_, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/forum_posts/%d/like", postID), nil)
	return err
}
