// Package knowledge keeps a small vector index of the portfolio so the chat
// assistant can quote the most relevant entries for a question.
package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/trueloving/deskfolio/internal/content"
)

const collectionName = "portfolio"

// FileName is the export written by Persist inside the data directory.
const FileName = "knowledge.gob.gz"

// Document is one retrievable piece of the portfolio.
type Document struct {
	ID      string
	Kind    string
	Content string
}

// Base is a chromem collection of portfolio documents.
type Base struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// New creates an empty in-memory base.
func New(embedder Embedder) (*Base, error) {
	db := chromem.NewDB()
	ef := ToChromemFunc(embedder)
	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return &Base{db: db, collection: col, embedFunc: ef}, nil
}

// Documents splits a portfolio into retrievable documents.
func Documents(p *content.Portfolio) []Document {
	var docs []Document

	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s based in %s.", p.Profile.Name, p.Profile.Role, p.Profile.Location)
	if p.Profile.RoleFocus != "" {
		fmt.Fprintf(&b, " Focus: %s.", p.Profile.RoleFocus)
	}
	fmt.Fprintf(&b, " Email: %s.", p.Contact.Email)
	if p.Social.GitHub != "" {
		fmt.Fprintf(&b, " GitHub: %s.", p.Social.GitHub)
	}
	if p.Social.LinkedIn != "" {
		fmt.Fprintf(&b, " LinkedIn: %s.", p.Social.LinkedIn)
	}
	docs = append(docs, Document{ID: "profile", Kind: "profile", Content: b.String()})

	for i, e := range p.Experience {
		text := fmt.Sprintf("%s at %s (%s, %s). %s", e.Title, e.Company, e.Location, e.Period, e.Description)
		if len(e.Achievements) > 0 {
			text += " Achievements: " + strings.Join(e.Achievements, "; ") + "."
		}
		if len(e.Technologies) > 0 {
			text += " Technologies: " + strings.Join(e.Technologies, ", ") + "."
		}
		docs = append(docs, Document{ID: fmt.Sprintf("experience:%d", i), Kind: "experience", Content: text})
	}

	for i, e := range p.Education {
		text := e.Degree
		if e.Major != "" {
			text += " in " + e.Major
		}
		text += fmt.Sprintf(" from %s, %s (%s).", e.Institution, e.Location, e.Year)
		if e.Description != "" {
			text += " " + e.Description
		}
		if len(e.RelevantCourses) > 0 {
			text += " Relevant courses: " + strings.Join(e.RelevantCourses, ", ") + "."
		}
		docs = append(docs, Document{ID: fmt.Sprintf("education:%d", i), Kind: "education", Content: text})
	}

	for _, proj := range p.Projects {
		text := fmt.Sprintf("Project %s: %s Tech stack: %s. Repository: %s.",
			proj.Title, proj.Description, strings.Join(proj.TechStack, ", "), proj.RepoURL)
		if proj.LiveURL != "" {
			text += " Live at " + proj.LiveURL + "."
		}
		docs = append(docs, Document{ID: "project:" + proj.ID, Kind: "project", Content: text})
	}

	for _, cat := range p.Skills {
		names := make([]string, 0, len(cat.Skills))
		for _, s := range cat.Skills {
			names = append(names, s.Name)
		}
		docs = append(docs, Document{
			ID:      "skills:" + cat.Category,
			Kind:    "skills",
			Content: fmt.Sprintf("Skills (%s): %s.", cat.Category, strings.Join(names, ", ")),
		})
	}
	return docs
}

// Sync makes the collection match the portfolio. Unchanged documents keep
// their embeddings; documents no longer present are removed. It returns how
// many documents were embedded.
func (b *Base) Sync(ctx context.Context, p *content.Portfolio) (int, error) {
	docs := Documents(p)
	keep := make(map[string]bool, len(docs))
	var pending []chromem.Document

	for _, d := range docs {
		keep[d.ID] = true
		hash := contentHash(d.Content)
		if existing, err := b.collection.GetByID(ctx, d.ID); err == nil && existing.Metadata["hash"] == hash {
			continue
		}
		pending = append(pending, chromem.Document{
			ID:       d.ID,
			Content:  d.Content,
			Metadata: map[string]string{"kind": d.Kind, "hash": hash},
		})
	}

	var stale []string
	for _, id := range b.storedIDs(ctx) {
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := b.collection.Delete(ctx, nil, nil, stale...); err != nil {
			return 0, fmt.Errorf("removing stale documents: %w", err)
		}
	}

	if len(pending) == 0 {
		return 0, nil
	}
	if err := b.collection.AddDocuments(ctx, pending, 1); err != nil {
		return 0, fmt.Errorf("adding documents: %w", err)
	}
	return len(pending), nil
}

// storedIDs lists every id in the collection. chromem has no listing call,
// so it runs a full-size query using the always-present profile document's
// own embedding, which costs no embedding request.
func (b *Base) storedIDs(ctx context.Context) []string {
	n := b.collection.Count()
	if n == 0 {
		return nil
	}
	anchor, err := b.collection.GetByID(ctx, "profile")
	if err != nil {
		return nil
	}
	res, err := b.collection.QueryEmbedding(ctx, anchor.Embedding, n, nil, nil)
	if err != nil {
		return nil
	}
	ids := make([]string, len(res))
	for i, r := range res {
		ids[i] = r.ID
	}
	return ids
}

// Retrieve returns the content of the k documents closest to query.
func (b *Base) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	count := b.collection.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	k = min(k, count)

	results, err := b.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Content
	}
	return out, nil
}

// Count is the number of indexed documents.
func (b *Base) Count() int {
	return b.collection.Count()
}

// Persist exports the collection to path.
func (b *Base) Persist(path string) error {
	if err := b.db.ExportToFile(path, true, ""); err != nil {
		return fmt.Errorf("exporting knowledge base: %w", err)
	}
	return nil
}

// Load imports a collection written by Persist. A missing file is not an error.
func (b *Base) Load(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := b.db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("importing knowledge base: %w", err)
	}
	// Re-acquire collection reference after import.
	col := b.db.GetCollection(collectionName, b.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	b.collection = col
	return nil
}

func contentHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
