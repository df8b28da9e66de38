package service

import (
	"encoding/json"
	"log"

	"github.com/meilisearch/meilisearch-go"
	"github.com/sociable-dev/sociable/internal/entity"
)

const postsIndex = "posts"

// SearchService maintains the post search index. Only public posts are ever
// indexed; privacy flips remove the document.
type SearchService interface {
	IndexPost(post *entity.Post) error
	RemovePost(id string) error
	Search(query string, limit int64) ([]map[string]any, error)
}

// postIndex is the slice of meilisearch.IndexManager this service touches.
type postIndex interface {
	AddDocuments(documentsPtr interface{}, primaryKey *string) (*meilisearch.TaskInfo, error)
	DeleteDocument(identifier string) (*meilisearch.TaskInfo, error)
	Search(query string, request *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error)
	UpdateSortableAttributes(request *[]string) (*meilisearch.TaskInfo, error)
}

type searchService struct {
	index postIndex
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{index: client.Index(postsIndex)}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	sortable := []string{"created_at"}
	if _, err := s.index.UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update posts sortable attributes: %v", err)
	}
}

type meiliPostDoc struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	CreatedAt   int64           `json:"created_at"`
	Author      meiliUserSubset `json:"author"`
}

type meiliUserSubset struct {
	Username       string `json:"username"`
	FullName       string `json:"fullname"`
	ProfilePicture string `json:"profile_picture"`
}

func (s *searchService) IndexPost(post *entity.Post) error {
	if post.Privacy != entity.PrivacyPublic {
		// Private posts must never be searchable
		return s.RemovePost(post.ID.String())
	}

	doc := meiliPostDoc{
		ID:          post.ID.String(),
		Description: post.Description,
		CreatedAt:   post.CreatedAt.Unix(),
		Author: meiliUserSubset{
			Username:       post.Author.Username,
			FullName:       post.Author.FullName,
			ProfilePicture: getStringOrEmpty(post.Author.ProfilePicture),
		},
	}

	primaryKey := "id"
	_, err := s.index.AddDocuments([]meiliPostDoc{doc}, &primaryKey)
	return err
}

func (s *searchService) RemovePost(id string) error {
	_, err := s.index.DeleteDocument(id)
	return err
}

func (s *searchService) Search(query string, limit int64) ([]map[string]any, error) {
	resp, err := s.index.Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]map[string]any, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		// Each hit is a map of field name to raw JSON
		doc := make(map[string]any, len(hit))
		for field, raw := range hit {
			var value any
			if err := json.Unmarshal(raw, &value); err != nil {
				log.Printf("failed to decode search hit field %s: %v", field, err)
				continue
			}
			doc[field] = value
		}
		hits = append(hits, doc)
	}
	return hits, nil
}

func getStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
