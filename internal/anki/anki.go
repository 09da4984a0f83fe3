// Package anki is a minimal AnkiConnect client covering the actions used for
// card export: deck creation, media upload, and note creation.
package anki

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const connectVersion = 6

// DefaultURL is the AnkiConnect listen address.
const DefaultURL = "http://127.0.0.1:8765"

// Client talks to a running Anki instance through the AnkiConnect add-on.
type Client struct {
	URL string

	client *http.Client
}

func New(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		URL:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

func (c *Client) invoke(action string, params any, out any) error {
	payload, err := json.Marshal(request{Action: action, Version: connectVersion, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.client.Post(c.URL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to reach AnkiConnect: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AnkiConnect returned status %d: %s", resp.StatusCode, string(body))
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if r.Error != nil && *r.Error != "" {
		return fmt.Errorf("AnkiConnect: %s", *r.Error)
	}
	if out != nil {
		if err := json.Unmarshal(r.Result, out); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}
	return nil
}

// Ping checks that AnkiConnect is reachable and recent enough.
func (c *Client) Ping() error {
	var v int
	if err := c.invoke("version", nil, &v); err != nil {
		return err
	}
	if v < connectVersion {
		return fmt.Errorf("AnkiConnect version %d is too old, need %d", v, connectVersion)
	}
	return nil
}

// EnsureDeck creates the deck if it does not exist yet.
func (c *Client) EnsureDeck(name string) error {
	return c.invoke("createDeck", map[string]any{"deck": name}, nil)
}

// StoreMediaFile uploads path into Anki's media folder and returns the stored
// filename.
func (c *Client) StoreMediaFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read media file: %w", err)
	}
	name := filepath.Base(path)
	params := map[string]any{
		"filename": name,
		"data":     base64.StdEncoding.EncodeToString(data),
	}
	if err := c.invoke("storeMediaFile", params, nil); err != nil {
		return "", err
	}
	return name, nil
}

// Note is one flashcard: original text on the front, translation plus the
// audio clip on the back.
type Note struct {
	Deck        string
	Original    string
	Translation string
	AudioFile   string
	Tags        []string
}

// AddNote creates a Basic note and returns its id.
func (c *Client) AddNote(n Note) (int64, error) {
	back := n.Translation
	if n.AudioFile != "" {
		back = fmt.Sprintf("%s<br>[sound:%s]", back, n.AudioFile)
	}
	params := map[string]any{
		"note": map[string]any{
			"deckName":  n.Deck,
			"modelName": "Basic",
			"fields": map[string]string{
				"Front": n.Original,
				"Back":  back,
			},
			"tags": n.Tags,
			"options": map[string]any{
				"allowDuplicate": true,
			},
		},
	}
	var id int64
	if err := c.invoke("addNote", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}
