package gitsync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recipedex/recipedex/internal/recipe"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New(Config{Owner: "alice", Repo: "recipes", Branch: "main", Path: "data/recipes.json", Token: "t0ken"})
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	c.GitHub().BaseURL = base
	return c
}

func contentsPayload(t *testing.T, col recipe.Collection, sha string) string {
	t.Helper()
	raw, err := json.Marshal(col)
	require.NoError(t, err)
	return fmt.Sprintf(`{
		"type": "file",
		"encoding": "base64",
		"sha": %q,
		"content": %q
	}`, sha, base64.StdEncoding.EncodeToString(raw))
}

func TestReadDecodesBase64Document(t *testing.T) {
	t.Parallel()

	want := recipe.Collection{Version: "1", Recipes: []recipe.Recipe{{ID: "r1", Name: "Toast"}}}
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/repos/alice/recipes/contents/data/recipes.json", r.URL.Path)
		require.Equal(t, "main", r.URL.Query().Get("ref"))
		fmt.Fprint(w, contentsPayload(t, want, "abc123"))
	}))

	got, ok := c.Read(context.Background())
	require.True(t, ok)
	require.Equal(t, want.Version, got.Version)
	require.Len(t, got.Recipes, 1)
	require.Equal(t, "Toast", got.Recipes[0].Name)
}

func TestReadUnavailableOnNotFound(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))

	_, ok := c.Read(context.Background())
	require.False(t, ok)
}

func TestReadUnavailableOnMalformedDocument(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		body := base64.StdEncoding.EncodeToString([]byte("{not json"))
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","sha":"x","content":%q}`, body)
	}))

	_, ok := c.Read(context.Background())
	require.False(t, ok)
}

func TestWriteCarriesCurrentSHA(t *testing.T) {
	t.Parallel()

	var put struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha"`
	}
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, contentsPayload(t, recipe.Collection{Version: "1"}, "oldsha"))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			fmt.Fprint(w, `{"content": {"sha": "newsha"}}`)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))

	col := recipe.Collection{Version: "1", Recipes: []recipe.Recipe{{ID: "r1", Name: "Toast"}}}
	require.NoError(t, c.Write(context.Background(), col, "Update recipes (2026-08-24)"))

	require.Equal(t, "oldsha", put.SHA)
	require.Equal(t, "main", put.Branch)
	require.Equal(t, "Update recipes (2026-08-24)", put.Message)

	decoded, err := base64.StdEncoding.DecodeString(put.Content)
	require.NoError(t, err)
	var sent recipe.Collection
	require.NoError(t, json.Unmarshal(decoded, &sent))
	require.Equal(t, "Toast", sent.Recipes[0].Name)
}

func TestWriteCreatesWhenSHAFetchFails(t *testing.T) {
	t.Parallel()

	var sawSHA bool
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
		case http.MethodPut:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, sawSHA = body["sha"]
			fmt.Fprint(w, `{"content": {"sha": "first"}}`)
		}
	}))

	require.NoError(t, c.Write(context.Background(), recipe.Collection{Version: "1"}, "Initial document"))
	require.False(t, sawSHA, "create path must not send a sha")
}

func TestWriteRejectedSurfacesSyncError(t *testing.T) {
	t.Parallel()

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, contentsPayload(t, recipe.Collection{Version: "1"}, "stale"))
		case http.MethodPut:
			http.Error(w, `{"message": "data/recipes.json does not match stale"}`, http.StatusConflict)
		}
	}))

	err := c.Write(context.Background(), recipe.Collection{Version: "1"}, "Update")
	require.Error(t, err)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	require.Equal(t, http.StatusConflict, syncErr.StatusCode)
	require.Contains(t, syncErr.Body, "does not match")
}

func TestConfigured(t *testing.T) {
	t.Parallel()

	require.True(t, New(Config{Owner: "a", Repo: "r", Token: "t"}).Configured())
	require.False(t, New(Config{Owner: "a", Repo: "r"}).Configured())
	require.False(t, New(Config{}).Configured())
}
