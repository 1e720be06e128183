package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"parokicms/internal/gitstore"
	"parokicms/internal/models"
	"parokicms/internal/store"
)

// fakeRepo is an in-memory stand-in for the Git-backed content
// repository, mirroring its conventions: found=false for absence,
// error when deleting a missing file.
type fakeRepo struct {
	files    map[string][]byte
	commits  []string
	failNext error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{files: make(map[string][]byte)}
}

func (r *fakeRepo) ReadFile(ctx context.Context, path string) (string, bool, error) {
	data, found, err := r.ReadFileBytes(ctx, path)
	return string(data), found, err
}

func (r *fakeRepo) ReadFileBytes(_ context.Context, path string) ([]byte, bool, error) {
	data, ok := r.files[path]
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (r *fakeRepo) ListDir(_ context.Context, dir string) ([]gitstore.FileInfo, error) {
	prefix := dir + "/"
	var infos []gitstore.FileInfo
	for path, data := range r.files {
		name, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(name, "/") {
			continue
		}
		infos = append(infos, gitstore.FileInfo{Name: name, Path: path, Size: int64(len(data))})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (r *fakeRepo) CommitFiles(_ context.Context, files []gitstore.CommitFile, message string) (string, error) {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return "", err
	}
	for _, f := range files {
		r.files[f.Path()] = f.Data()
	}
	r.commits = append(r.commits, message)
	return fmt.Sprintf("commit-%d", len(r.commits)), nil
}

func (r *fakeRepo) DeleteFile(_ context.Context, path, message string) error {
	if _, ok := r.files[path]; !ok {
		return fmt.Errorf("delete %s: file not found", path)
	}
	delete(r.files, path)
	r.commits = append(r.commits, message)
	return nil
}

var _ store.Repo = (*fakeRepo)(nil)

// memCache implements PageCache in memory for cache behavior tests.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, path string) ([]byte, bool) {
	body, ok := c.data[path]
	return body, ok
}

func (c *memCache) Set(_ context.Context, path string, body []byte) {
	c.data[path] = body
}

// seedPost commits a post directly into the fake repository.
func seedPost(t *testing.T, repo *fakeRepo, post *models.Post) {
	t.Helper()
	raw, err := post.Encode()
	if err != nil {
		t.Fatalf("encode post: %v", err)
	}
	repo.files[post.FilePath()] = []byte(raw)
}

func publishedPost(slug, title string, day int) *models.Post {
	return &models.Post{
		Title:       title,
		Description: "desc",
		Author:      "Admin",
		Category:    "Berita",
		Published:   true,
		PublishedAt: time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC),
		Slug:        slug,
		Body:        "Isi artikel.",
	}
}

// jsonBody marshals v into a request body reader.
func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewReader(raw)
}

// doJSON routes a request through a chi router and decodes the JSON
// response body into out (when out is non-nil).
func doJSON(t *testing.T, router http.Handler, method, target string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	reader := bytes.NewReader(nil)
	if body != nil {
		reader = jsonBody(t, body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

// fakeFlusher records whole-cache invalidations.
type fakeFlusher struct {
	flushed int
}

func (f *fakeFlusher) InvalidateAll(context.Context) { f.flushed++ }

func testAdminHandlers(repo *fakeRepo, access CollaboratorChecker) (*Admin, chi.Router) {
	return testAdminHandlersWithCache(repo, access, &fakeFlusher{})
}

func testAdminHandlersWithCache(repo *fakeRepo, access CollaboratorChecker, cache CacheFlusher) (*Admin, chi.Router) {
	admin := NewAdmin(
		store.NewPostStore(repo, nil),
		store.NewCategoryStore(repo, nil),
		store.NewDirectoryStore(repo, nil),
		store.NewEventStore(repo, nil),
		store.NewStatisticsStore(repo, nil),
		access,
		cache,
	)

	r := chi.NewRouter()
	r.Get("/posts", admin.ListPosts)
	r.Get("/posts/{slug}", admin.GetPost)
	r.Post("/posts", admin.CreatePost)
	r.Put("/posts/{slug}", admin.UpdatePost)
	r.Delete("/posts/{slug}", admin.DeletePost)
	r.Post("/categories/{domain}", admin.AddCategory)
	r.Put("/categories/{domain}", admin.RenameCategory)
	r.Delete("/categories/{domain}", admin.RemoveCategory)
	r.Post("/umkm", admin.CreateDirectoryEntry)
	r.Put("/umkm/{id}", admin.UpdateDirectoryEntry)
	r.Delete("/umkm/{id}", admin.DeleteDirectoryEntry)
	r.Post("/jadwal", admin.CreateEvent)
	r.Put("/jadwal/{id}", admin.UpdateEvent)
	r.Delete("/jadwal/{id}", admin.DeleteEvent)
	r.Put("/statistik", admin.SaveStatistics)
	r.Get("/access/{username}", admin.CheckAccess)
	r.Post("/cache/clear", admin.FlushCache)
	return admin, r
}

func testPublicHandlers(repo *fakeRepo, cache PageCache) chi.Router {
	public := NewPublic(
		store.NewPostStore(repo, nil),
		store.NewCategoryStore(repo, nil),
		store.NewDirectoryStore(repo, nil),
		store.NewEventStore(repo, nil),
		store.NewStatisticsStore(repo, nil),
		store.NewMediaStore(repo, nil),
		cache,
	)

	r := chi.NewRouter()
	r.Get("/posts", public.ListPosts)
	r.Get("/posts/{slug}", public.GetPost)
	r.Get("/categories/{domain}", public.Categories)
	r.Get("/umkm", public.Directory)
	r.Get("/jadwal", public.Events)
	r.Get("/statistik", public.Statistics)
	r.Get("/images/{name}", public.Image)
	return r
}
