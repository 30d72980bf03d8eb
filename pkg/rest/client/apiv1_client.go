// Package client provides a basic REST client for Inbucket
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/inbucket/mailcheck/pkg/rest/model"
)

// Client accesses the Inbucket REST API v1
type Client struct {
	restClient
}

// New creates a new v1 REST API client given the base URL of an Inbucket server, ex:
// "http://localhost:9000"
func New(baseURL string, opts ...func(*ClientOptions)) (*Client, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	options := getDefaultClientOptions()
	for _, opt := range opts {
		opt(options)
	}
	c := &Client{
		restClient{
			client: &http.Client{
				Transport: options.transport,
				Timeout:   options.timeout,
			},
			baseURL: parsedURL,
		},
	}
	return c, nil
}

// BaseURL returns the Inbucket server URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func mailboxURI(name string) string {
	return "/api/v1/mailbox/" + url.PathEscape(name)
}

func messageURI(name, id string) string {
	return mailboxURI(name) + "/" + url.PathEscape(id)
}

// ListMailbox returns a list of messages for the requested mailbox, oldest first
func (c *Client) ListMailbox(ctx context.Context, name string) (headers []*MessageHeader, err error) {
	err = c.doJSON(ctx, "GET", mailboxURI(name), &headers)
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		h.client = c
	}
	return
}

// GetMessage returns the message details given a mailbox name and message ID.
func (c *Client) GetMessage(ctx context.Context, name, id string) (message *Message, err error) {
	err = c.doJSON(ctx, "GET", messageURI(name, id), &message)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, fmt.Errorf("GET for %q: empty message", messageURI(name, id))
	}
	message.client = c
	return
}

// GetMessageSource returns the message source given a mailbox name and message ID.
func (c *Client) GetMessageSource(ctx context.Context, name, id string) (*bytes.Buffer, error) {
	resp, err := c.do(ctx, "GET", messageURI(name, id)+"/source", nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil,
			fmt.Errorf("unexpected HTTP response status %v: %s", resp.StatusCode, resp.Status)
	}
	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	return buf, err
}

// DeleteMessage deletes a single message given the mailbox name and message ID.
func (c *Client) DeleteMessage(ctx context.Context, name, id string) error {
	resp, err := c.do(ctx, "DELETE", messageURI(name, id), nil)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP response status %v: %s", resp.StatusCode, resp.Status)
	}
	return nil
}

// PurgeMailbox deletes all messages in the given mailbox.  The response is returned as received,
// a non-200 status is not treated as an error.  The response body has already been drained and
// closed.
func (c *Client) PurgeMailbox(ctx context.Context, name string) (*http.Response, error) {
	resp, err := c.do(ctx, "DELETE", mailboxURI(name), nil)
	if err != nil {
		return nil, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp, nil
}

// MessageHeader represents an Inbucket message sans content
type MessageHeader struct {
	*model.JSONMessageHeaderV1
	client *Client
}

// GetMessage returns this message with content
func (h *MessageHeader) GetMessage(ctx context.Context) (message *Message, err error) {
	return h.client.GetMessage(ctx, h.Mailbox, h.ID)
}

// GetSource returns the source for this message
func (h *MessageHeader) GetSource(ctx context.Context) (*bytes.Buffer, error) {
	return h.client.GetMessageSource(ctx, h.Mailbox, h.ID)
}

// Delete deletes this message from the mailbox
func (h *MessageHeader) Delete(ctx context.Context) error {
	return h.client.DeleteMessage(ctx, h.Mailbox, h.ID)
}

// Message represents an Inbucket message including content
type Message struct {
	*model.JSONMessageV1
	client *Client
}

// GetSource returns the source for this message
func (m *Message) GetSource(ctx context.Context) (*bytes.Buffer, error) {
	return m.client.GetMessageSource(ctx, m.Mailbox, m.ID)
}

// Delete deletes this message from the mailbox
func (m *Message) Delete(ctx context.Context) error {
	return m.client.DeleteMessage(ctx, m.Mailbox, m.ID)
}
