package content

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"en.yaml": {Data: []byte(`
profile:
  name: Ada
  role: Engineer
  location: London
  email: ada@example.com
  year_of_birth: 1990
social:
  github: https://github.com/ada
contact:
  email: ada@example.com
  phone: "+44 1234"
skills:
  - category: languages
    skills:
      - {name: Go, level: expert, years: 5}
      - {name: Rust}
  - category: tools
    skills:
      - {name: Docker}
experience:
  - title: Engineer
    company: Analytical Engines
    period: 1843 - Present
`)},
		"zh-CN.yaml": {Data: []byte(`
profile:
  name: 艾达
  email: ada@example.com
`)},
		"backgrounds.yaml": {Data: []byte(`
images: [/a.jpg, /b.jpg]
videos: [/c.mp4]
`)},
		"projects/b.json": {Data: []byte(`{"id":"beta","title":"Beta","description":"second","repoUrl":"https://github.com/ada/beta","techStack":["Go"],"structure":{"root":"beta","children":[]},"images":[]}`)},
		"projects/a.json": {Data: []byte(`{"id":"alpha","title":"Alpha","description":"first","repoUrl":"https://github.com/ada/alpha","techStack":["Rust"],"structure":{"root":"alpha","children":[{"name":"src","type":"directory","children":[{"name":"main.rs","type":"file"}]}]},"images":[]}`)},
	}
}

func TestLoad(t *testing.T) {
	p, err := Load(testFS(), "en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Locale != "en" {
		t.Errorf("locale = %q", p.Locale)
	}
	if p.Profile.Name != "Ada" || p.Profile.YearOfBirth != 1990 {
		t.Errorf("profile = %+v", p.Profile)
	}
	if p.Contact.Phone != "+44 1234" {
		t.Errorf("phone = %q", p.Contact.Phone)
	}
	if len(p.Projects) != 2 || p.Projects[0].ID != "alpha" || p.Projects[1].ID != "beta" {
		t.Fatalf("projects not loaded in file order: %+v", p.Projects)
	}
	if got := p.Projects[0].Structure.Children[0].Children[0].Name; got != "main.rs" {
		t.Errorf("nested structure child = %q", got)
	}
}

func TestLoadMissingLocale(t *testing.T) {
	_, err := Load(testFS(), "fr")
	if !errors.Is(err, ErrLocaleNotFound) {
		t.Fatalf("err = %v, want ErrLocaleNotFound", err)
	}
}

func TestLoadProjectsRejectsDuplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"projects/a.json": {Data: []byte(`{"id":"same"}`)},
		"projects/b.json": {Data: []byte(`{"id":"same"}`)},
	}
	if _, err := LoadProjects(fsys); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("err = %v, want duplicate id error", err)
	}
}

func TestLoadProjectsRequiresID(t *testing.T) {
	fsys := fstest.MapFS{"projects/a.json": {Data: []byte(`{"title":"no id"}`)}}
	if _, err := LoadProjects(fsys); err == nil {
		t.Fatal("expected error for project without id")
	}
}

func TestAgeAndSkills(t *testing.T) {
	p, err := Load(testFS(), "en")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Age(2026); got != 36 {
		t.Errorf("Age(2026) = %d, want 36", got)
	}
	want := []string{"Go", "Rust", "Docker"}
	got := p.SkillNames()
	if len(got) != len(want) {
		t.Fatalf("SkillNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SkillNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLibraryFallback(t *testing.T) {
	lib, err := NewLibrary(testFS(), "en", []string{"en", "zh-CN", "fr"})
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	if got := lib.Get("zh-CN").Profile.Name; got != "艾达" {
		t.Errorf("zh-CN name = %q", got)
	}
	if got := lib.Get("fr").Profile.Name; got != "Ada" {
		t.Errorf("fr should fall back to en, got %q", got)
	}
	if locs := lib.Locales(); len(locs) != 2 || locs[0] != "en" || locs[1] != "zh-CN" {
		t.Errorf("Locales = %v", locs)
	}
	// Projects are shared across locales.
	if _, err := lib.Project("zh-CN", "beta"); err != nil {
		t.Errorf("Project(zh-CN, beta): %v", err)
	}
	if _, err := lib.Project("en", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLibraryMissingDefault(t *testing.T) {
	if _, err := NewLibrary(fstest.MapFS{}, "en", nil); err == nil {
		t.Fatal("expected error when default locale is missing")
	}
}

func TestBackgrounds(t *testing.T) {
	lib, err := NewLibrary(testFS(), "en", nil)
	if err != nil {
		t.Fatal(err)
	}
	bgs := lib.Backgrounds()
	if len(bgs) != 3 {
		t.Fatalf("got %d backgrounds, want 3", len(bgs))
	}
	if bgs["bg-0"].Type != BackgroundImage || bgs["bg-0"].Src != "/a.jpg" {
		t.Errorf("bg-0 = %+v", bgs["bg-0"])
	}
	if bgs["bg-2"].Type != BackgroundVideo || bgs["bg-2"].Src != "/c.mp4" {
		t.Errorf("bg-2 = %+v", bgs["bg-2"])
	}
	for i := 0; i < 20; i++ {
		if _, ok := bgs[lib.RandomBackground()]; !ok {
			t.Fatal("RandomBackground returned unknown key")
		}
	}
}

func TestRandomBackgroundEmpty(t *testing.T) {
	fsys := testFS()
	delete(fsys, "backgrounds.yaml")
	lib, err := NewLibrary(fsys, "en", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := lib.RandomBackground(); got != "bg-0" {
		t.Errorf("RandomBackground() = %q, want bg-0", got)
	}
}

func TestDefaultsLoad(t *testing.T) {
	lib, err := NewLibrary(Defaults(), "en", []string{"en", "zh-CN"})
	if err != nil {
		t.Fatalf("embedded defaults: %v", err)
	}
	if len(lib.Get("en").Projects) == 0 {
		t.Error("embedded defaults have no projects")
	}
	if len(lib.Locales()) != 2 {
		t.Errorf("embedded locales = %v", lib.Locales())
	}
}

func setupTestRouter(t *testing.T) chi.Router {
	t.Helper()
	lib, err := NewLibrary(testFS(), "en", []string{"en", "zh-CN"})
	if err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, lib)
	return r
}

func TestHTTPProfile(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/profile?lang=zh-CN", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Locale  string  `json:"locale"`
		Profile Profile `json:"profile"`
		Age     int     `json:"age"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Locale != "zh-CN" || resp.Profile.Name != "艾达" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHTTPProjects(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/projects", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var projects []Project
	json.NewDecoder(w.Body).Decode(&projects)
	if len(projects) != 2 {
		t.Fatalf("got %d projects", len(projects))
	}

	req = httptest.NewRequest("GET", "/api/projects/alpha", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/projects/missing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", w.Code)
	}
}

func TestHTTPBackgrounds(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/backgrounds", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp struct {
		Backgrounds map[string]Background `json:"backgrounds"`
		Initial     string                `json:"initial"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Backgrounds) != 3 {
		t.Errorf("backgrounds = %v", resp.Backgrounds)
	}
	if _, ok := resp.Backgrounds[resp.Initial]; !ok {
		t.Errorf("initial %q not in map", resp.Initial)
	}
}
