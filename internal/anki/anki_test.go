package anki

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordedRequest struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
}

func testServer(t *testing.T, result string, last *recordedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(last); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Write([]byte(result))
	}))
}

func TestAddNoteBuildsBasicNote(t *testing.T) {
	var last recordedRequest
	srv := testServer(t, `{"result": 1496198395707, "error": null}`, &last)
	defer srv.Close()

	c := New(srv.URL)
	id, err := c.AddNote(Note{
		Deck:        "Spanish",
		Original:    "hola",
		Translation: "hello",
		AudioFile:   "clip.mp3",
		Tags:        []string{"cardsplice"},
	})
	if err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if id != 1496198395707 {
		t.Fatalf("note id = %d, want 1496198395707", id)
	}
	if last.Action != "addNote" || last.Version != 6 {
		t.Fatalf("request = %s v%d, want addNote v6", last.Action, last.Version)
	}

	var params struct {
		Note struct {
			DeckName  string            `json:"deckName"`
			ModelName string            `json:"modelName"`
			Fields    map[string]string `json:"fields"`
		} `json:"note"`
	}
	if err := json.Unmarshal(last.Params, &params); err != nil {
		t.Fatalf("failed to decode params: %v", err)
	}
	if params.Note.DeckName != "Spanish" || params.Note.ModelName != "Basic" {
		t.Fatalf("note = %+v, want Spanish/Basic", params.Note)
	}
	if params.Note.Fields["Front"] != "hola" {
		t.Fatalf("front = %q, want %q", params.Note.Fields["Front"], "hola")
	}
	if want := "hello<br>[sound:clip.mp3]"; params.Note.Fields["Back"] != want {
		t.Fatalf("back = %q, want %q", params.Note.Fields["Back"], want)
	}
}

func TestErrorFieldBecomesError(t *testing.T) {
	var last recordedRequest
	srv := testServer(t, `{"result": null, "error": "deck was not found"}`, &last)
	defer srv.Close()

	c := New(srv.URL)
	if err := c.EnsureDeck("missing"); err == nil || !strings.Contains(err.Error(), "deck was not found") {
		t.Fatalf("err = %v, want the AnkiConnect error surfaced", err)
	}
}

func TestEnsureDeckAction(t *testing.T) {
	var last recordedRequest
	srv := testServer(t, `{"result": 1, "error": null}`, &last)
	defer srv.Close()

	c := New(srv.URL)
	if err := c.EnsureDeck("Spanish"); err != nil {
		t.Fatalf("EnsureDeck failed: %v", err)
	}
	if last.Action != "createDeck" {
		t.Fatalf("action = %q, want createDeck", last.Action)
	}
	if !strings.Contains(string(last.Params), `"deck":"Spanish"`) {
		t.Fatalf("params = %s, want the deck name", last.Params)
	}
}

func TestPingRejectsOldVersion(t *testing.T) {
	var last recordedRequest
	srv := testServer(t, `{"result": 4, "error": null}`, &last)
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "too old") {
		t.Fatalf("err = %v, want a version complaint", err)
	}
}

func TestStoreMediaFileEncodesContent(t *testing.T) {
	var last recordedRequest
	srv := testServer(t, `{"result": "clip.mp3", "error": null}`, &last)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("fake audio"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(srv.URL)
	name, err := c.StoreMediaFile(path)
	if err != nil {
		t.Fatalf("StoreMediaFile failed: %v", err)
	}
	if name != "clip.mp3" {
		t.Fatalf("stored name = %q, want clip.mp3", name)
	}

	var params struct {
		Filename string `json:"filename"`
		Data     string `json:"data"`
	}
	if err := json.Unmarshal(last.Params, &params); err != nil {
		t.Fatalf("failed to decode params: %v", err)
	}
	if params.Filename != "clip.mp3" {
		t.Fatalf("filename = %q, want clip.mp3", params.Filename)
	}
	if want := base64.StdEncoding.EncodeToString([]byte("fake audio")); params.Data != want {
		t.Fatalf("data = %q, want %q", params.Data, want)
	}
}

func TestDefaultURL(t *testing.T) {
	if c := New(""); c.URL != DefaultURL {
		t.Fatalf("URL = %q, want %q", c.URL, DefaultURL)
	}
}
