package index

import (
	"encoding/json"
	"fmt"

	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
)

// indexDoc is the persisted content index document.
type indexDoc struct {
	Fundamentals []postDoc   `json:"fundamentals"`
	Papers       []postDoc   `json:"papers"`
	Tags         tagsDoc     `json:"tags"`
	Metadata     metadataDoc `json:"metadata"`
}

type tagsDoc struct {
	Topics   []string `json:"topics"`
	Keywords []string `json:"keywords"`
}

type metadataDoc struct {
	TotalPosts  int    `json:"total_posts"`
	LastUpdated string `json:"last_updated"`
}

type postDoc struct {
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Topics   []string `json:"topics,omitempty"`
	FilePath string   `json:"file_path"`
	Hash     string   `json:"hash"`
	ArxivID  string   `json:"arxiv_id,omitempty"`
}

func buildIndexDoc(x *domindex.Index) indexDoc {
	tags := x.Tags()
	meta := x.Metadata()
	return indexDoc{
		Fundamentals: buildPostDocs(x.Fundamentals()),
		Papers:       buildPostDocs(x.Papers()),
		Tags:         tagsDoc{Topics: nonNil(tags.Topics), Keywords: nonNil(tags.Keywords)},
		Metadata:     metadataDoc{TotalPosts: meta.TotalPosts, LastUpdated: meta.LastUpdated},
	}
}

func buildPostDocs(records []post.Record) []postDoc {
	out := make([]postDoc, len(records))
	for i := range records {
		r := &records[i]
		out[i] = postDoc{
			Type:     string(r.Kind()),
			ID:       r.ID(),
			Date:     r.Date(),
			Title:    r.Title(),
			Keywords: nonNil(r.Keywords()),
			Topics:   r.Topics(),
			FilePath: r.FilePath(),
			Hash:     r.Hash(),
			ArxivID:  r.ArxivID(),
		}
	}
	return out
}

func parseIndexDoc(doc *indexDoc) domindex.Index {
	return domindex.Reconstruct(
		parsePostDocs(doc.Fundamentals),
		parsePostDocs(doc.Papers),
		domindex.Tags{Topics: doc.Tags.Topics, Keywords: doc.Tags.Keywords},
		domindex.Metadata{TotalPosts: doc.Metadata.TotalPosts, LastUpdated: doc.Metadata.LastUpdated},
	)
}

func parsePostDocs(docs []postDoc) []post.Record {
	out := make([]post.Record, len(docs))
	for i, d := range docs {
		out[i] = post.Reconstruct(post.RecordParams{
			Kind:     d.Type,
			ID:       d.ID,
			Date:     d.Date,
			Title:    d.Title,
			Keywords: d.Keywords,
			Topics:   d.Topics,
			FilePath: d.FilePath,
			Hash:     d.Hash,
			ArxivID:  d.ArxivID,
		})
	}
	return out
}

// Encode serializes the index as the persisted JSON document (2-space indent).
func Encode(x *domindex.Index) ([]byte, error) {
	data, err := json.MarshalIndent(buildIndexDoc(x), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal index: %w", err)
	}
	return data, nil
}

// Decode parses a persisted JSON document.
func Decode(data []byte) (domindex.Index, error) {
	var doc indexDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domindex.Index{}, fmt.Errorf("unmarshal index: %w", err)
	}
	return parseIndexDoc(&doc), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
