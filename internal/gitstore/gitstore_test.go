package gitstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"parokicms/internal/github"
)

// fakeRepo is an in-memory stand-in for the GitHub git-data and contents
// APIs. Blobs, trees, and commits are created freely, but the visible
// file state only changes when the ref update succeeds. Objects not
// reachable from the branch ref do not exist as far as readers are
// concerned.
type fakeRepo struct {
	mu      sync.Mutex
	files   map[string][]byte // committed state, visible to contents API
	tip     string
	seq     int
	blobs   map[string][]byte
	trees   map[string][]treeChange
	commits map[string]string // commit sha -> tree sha

	failRefUpdate bool
	refUpdates    int
}

type treeChange struct {
	path string
	blob string
}

func newFakeRepo(files map[string][]byte) *fakeRepo {
	if files == nil {
		files = map[string][]byte{}
	}
	return &fakeRepo{
		files:   files,
		tip:     "commit-0",
		blobs:   map[string][]byte{},
		trees:   map[string][]treeChange{},
		commits: map[string]string{"commit-0": "tree-0"},
	}
}

func (f *fakeRepo) nextSHA(kind string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", kind, f.seq)
}

func (f *fakeRepo) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/git/ref/heads%2Fmain"), strings.HasSuffix(path, "/git/ref/heads/main"):
			json.NewEncoder(w).Encode(github.Ref{Object: github.RefObject{SHA: f.tip, Type: "commit"}})

		case strings.Contains(path, "/git/commits/"):
			sha := path[strings.LastIndex(path, "/")+1:]
			tree, ok := f.commits[sha]
			if !ok {
				http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(github.Commit{SHA: sha, Tree: github.CommitTree{SHA: tree}})

		case strings.HasSuffix(path, "/git/blobs"):
			var req github.CreateBlobRequest
			json.NewDecoder(r.Body).Decode(&req)
			data := []byte(req.Content)
			if req.Encoding == "base64" {
				decoded, err := base64.StdEncoding.DecodeString(req.Content)
				if err != nil {
					t.Errorf("bad base64 blob: %v", err)
				}
				data = decoded
			}
			sha := f.nextSHA("blob")
			f.blobs[sha] = data
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(github.Blob{SHA: sha})

		case strings.HasSuffix(path, "/git/trees"):
			var req github.CreateTreeRequest
			json.NewDecoder(r.Body).Decode(&req)
			sha := f.nextSHA("tree")
			var changes []treeChange
			for _, entry := range req.Entries {
				if entry.SHA == nil {
					t.Error("tree entry without blob SHA")
					continue
				}
				changes = append(changes, treeChange{path: entry.Path, blob: *entry.SHA})
			}
			f.trees[sha] = changes
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(github.Tree{SHA: sha})

		case strings.HasSuffix(path, "/git/commits"):
			var req github.CreateCommitRequest
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Parents) != 1 || req.Parents[0] != f.tip {
				http.Error(w, `{"message":"parent is not tip"}`, http.StatusUnprocessableEntity)
				return
			}
			sha := f.nextSHA("commit")
			f.commits[sha] = req.Tree
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(github.Commit{SHA: sha})

		case strings.Contains(path, "/git/refs/"):
			f.refUpdates++
			if f.failRefUpdate {
				http.Error(w, `{"message":"Update is not a fast forward"}`, http.StatusUnprocessableEntity)
				return
			}
			var req struct {
				SHA string `json:"sha"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			// Apply the commit's tree changes to the visible state.
			for _, change := range f.trees[f.commits[req.SHA]] {
				f.files[change.path] = f.blobs[change.blob]
			}
			f.tip = req.SHA
			json.NewEncoder(w).Encode(github.Ref{Object: github.RefObject{SHA: req.SHA}})

		case strings.Contains(path, "/contents/"):
			filePath := path[strings.Index(path, "/contents/")+len("/contents/"):]
			if r.Method == http.MethodDelete {
				if _, ok := f.files[filePath]; !ok {
					http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
					return
				}
				delete(f.files, filePath)
				json.NewEncoder(w).Encode(map[string]any{})
				return
			}
			if data, ok := f.files[filePath]; ok {
				json.NewEncoder(w).Encode(github.Content{
					Type:     "file",
					Name:     filePath[strings.LastIndex(filePath, "/")+1:],
					Path:     filePath,
					SHA:      "sha-" + filePath,
					Size:     int64(len(data)),
					Content:  base64.StdEncoding.EncodeToString(data),
					Encoding: "base64",
				})
				return
			}
			// Directory listing: any committed file under the prefix.
			var entries []github.Content
			prefix := filePath + "/"
			for p, data := range f.files {
				if strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], "/") {
					entries = append(entries, github.Content{
						Type: "file",
						Name: p[len(prefix):],
						Path: p,
						Size: int64(len(data)),
					})
				}
			}
			if len(entries) == 0 {
				http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(entries)

		default:
			t.Errorf("unexpected request: %s %s", r.Method, path)
			http.Error(w, `{"message":"unexpected"}`, http.StatusInternalServerError)
		}
	})
}

func newTestStore(t *testing.T, repo *fakeRepo) *Store {
	t.Helper()
	server := httptest.NewTLSServer(repo.handler(t))
	t.Cleanup(server.Close)

	client, err := github.NewClient(github.Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return New(client, "paroki", "content", "main")
}

func TestReadFile_AbsentIsNotAnError(t *testing.T) {
	store := newTestStore(t, newFakeRepo(nil))

	// Absence must be stable across calls, never an error.
	for range 3 {
		_, found, err := store.ReadFile(context.Background(), "no/such/file.json")
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if found {
			t.Fatal("found = true for missing file")
		}
	}
}

func TestReadFile_DecodesBase64(t *testing.T) {
	repo := newFakeRepo(map[string][]byte{"statistik.json": []byte(`{"churches":5}`)})
	store := newTestStore(t, repo)

	content, found, err := store.ReadFile(context.Background(), "statistik.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !found {
		t.Fatal("found = false")
	}
	if content != `{"churches":5}` {
		t.Errorf("content = %q", content)
	}
}

func TestListDir(t *testing.T) {
	repo := newFakeRepo(map[string][]byte{
		"posts/2026-01-02-b.md": []byte("b"),
		"posts/2026-01-01-a.md": []byte("a"),
	})
	store := newTestStore(t, repo)

	files, err := store.ListDir(context.Background(), "posts")
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].Name != "2026-01-01-a.md" || files[1].Name != "2026-01-02-b.md" {
		t.Errorf("listing not sorted by name: %+v", files)
	}

	empty, err := store.ListDir(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("ListDir(absent): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("absent directory returned %d entries", len(empty))
	}
}

func TestCommitFiles_MultiFileAtomic(t *testing.T) {
	repo := newFakeRepo(nil)
	store := newTestStore(t, repo)

	sha, err := store.CommitFiles(context.Background(), []CommitFile{
		TextFile("categories.json", `{"categories":["Berita"]}`),
		BinaryFile("images/logo-1-x.webp", []byte{0x52, 0x49, 0x46, 0x46}),
	}, "Add seed content")
	if err != nil {
		t.Fatalf("CommitFiles: %v", err)
	}
	if sha == "" {
		t.Fatal("empty commit SHA")
	}

	content, found, err := store.ReadFile(context.Background(), "categories.json")
	if err != nil || !found {
		t.Fatalf("ReadFile after commit: found=%v err=%v", found, err)
	}
	if content != `{"categories":["Berita"]}` {
		t.Errorf("content = %q", content)
	}

	data, found, err := store.ReadFileBytes(context.Background(), "images/logo-1-x.webp")
	if err != nil || !found {
		t.Fatalf("ReadFileBytes after commit: found=%v err=%v", found, err)
	}
	if string(data) != "RIFF" {
		t.Errorf("binary round-trip = %q", data)
	}
}

func TestCommitFiles_RefRaceLeavesNothingBehind(t *testing.T) {
	repo := newFakeRepo(nil)
	repo.failRefUpdate = true
	store := newTestStore(t, repo)

	_, err := store.CommitFiles(context.Background(), []CommitFile{
		TextFile("umkm.json", "[]"),
		TextFile("umkm-categories.json", `{"categories":[]}`),
	}, "Seed directory data")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// Neither file may be visible: the commit never became reachable.
	for _, path := range []string{"umkm.json", "umkm-categories.json"} {
		_, found, err := store.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", path, err)
		}
		if found {
			t.Errorf("%s exists after failed commit", path)
		}
	}
}

func TestCommitFiles_EmptySetRejected(t *testing.T) {
	store := newTestStore(t, newFakeRepo(nil))
	if _, err := store.CommitFiles(context.Background(), nil, "nothing"); err == nil {
		t.Fatal("expected error for empty file set")
	}
}

func TestDeleteFile(t *testing.T) {
	repo := newFakeRepo(map[string][]byte{"images/old.webp": []byte("x")})
	store := newTestStore(t, repo)

	if err := store.DeleteFile(context.Background(), "images/old.webp", "Delete image: images/old.webp"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}

	_, found, err := store.ReadFile(context.Background(), "images/old.webp")
	if err != nil {
		t.Fatalf("ReadFile after delete: %v", err)
	}
	if found {
		t.Error("file still present after delete")
	}

	// Deleting an absent file is surfaced, not masked.
	if err := store.DeleteFile(context.Background(), "images/old.webp", "again"); err == nil {
		t.Fatal("expected error deleting absent file")
	}
}
