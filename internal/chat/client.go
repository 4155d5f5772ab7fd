package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slack-go/slack"
)

// Client wraps the Slack Web API with the three operations the
// orchestrator needs: post a message, post a file, and download a
// user-attached file through the authenticated url_private endpoint.
type Client struct {
	api *slack.Client
}

// NewClient builds a Client from a bot token.
func NewClient(botToken string) *Client {
	return &Client{api: slack.New(botToken)}
}

// SendMessage posts a plain text message to the channel.
func (c *Client) SendMessage(ctx context.Context, channelID, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	return nil
}

// SendFile uploads the local file into the channel.
func (c *Client) SendFile(ctx context.Context, channelID, localPath string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("failed to stat upload: %w", err)
	}

	_, err = c.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Channel:  channelID,
		File:     localPath,
		Filename: filepath.Base(localPath),
		FileSize: int(info.Size()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// DownloadFile fetches a url_private attachment into localDest.
func (c *Client) DownloadFile(ctx context.Context, url, localDest string) error {
	f, err := os.Create(localDest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localDest, err)
	}
	defer f.Close()

	if err := c.api.GetFileContext(ctx, url, f); err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	return nil
}
