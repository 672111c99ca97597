package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
)

// SearchService keeps the public-profile registry in Elasticsearch. Private
// profiles are never indexed; a profile that flips private is removed.
type SearchService struct {
	ES     *elasticsearch.Client
	Index  string
	Store  *Store
	Logger *logrus.Logger
}

func NewSearchService(es *elasticsearch.Client, index string, store *Store, logger *logrus.Logger) *SearchService {
	return &SearchService{ES: es, Index: index, Store: store, Logger: logger}
}

// IndexProfile writes the lightweight profile document for a public identity,
// or removes it when the identity went private. Failures are logged, never
// surfaced: the registry is a secondary view of the store.
func (s *SearchService) IndexProfile(ctx context.Context, identityID string, d *entity.UserData) {
	if s.ES == nil || s.Index == "" {
		return
	}
	if !d.Settings.IsPublic {
		s.RemoveProfile(ctx, identityID)
		return
	}

	echo := d.Echo(identityID)
	b, _ := json.Marshal(echo)
	req := esapi.IndexRequest{Index: s.Index, DocumentID: identityID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("identity_id", identityID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("identity_id", identityID).Warn("es index response error")
	}
}

// RemoveProfile drops an identity from the registry (purge, or going private).
func (s *SearchService) RemoveProfile(ctx context.Context, identityID string) {
	if s.ES == nil || s.Index == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.Index, DocumentID: identityID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("identity_id", identityID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match over name and bio.
func (s *SearchService) Search(ctx context.Context, q string, size int) ([]entity.EchoProfile, error) {
	if s.ES == nil || s.Index == "" {
		return []entity.EchoProfile{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "bio"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.Index), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = res.Body.Close()
	}()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string             `json:"_id"`
				Source entity.EchoProfile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.EchoProfile, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		p := h.Source
		if p.ID == "" {
			p.ID = h.ID
		}
		out = append(out, p)
	}

	return out, nil
}

// ProfileByID returns one profile, consulting the registry first and falling
// back to the canonical store when the identity is not indexed. Unknown ids
// come back not-found; a lookup never creates a record.
func (s *SearchService) ProfileByID(ctx context.Context, identityID string) (*entity.EchoProfile, error) {
	if s.ES != nil && s.Index != "" {
		req := esapi.GetRequest{Index: s.Index, DocumentID: identityID}
		c, cancel := context.WithTimeout(ctx, 3*time.Second)
		res, err := req.Do(c, s.ES)
		cancel()
		if err == nil {
			var parsed struct {
				Found  bool               `json:"found"`
				Source entity.EchoProfile `json:"_source"`
			}
			decodeErr := json.NewDecoder(res.Body).Decode(&parsed)
			_ = res.Body.Close()
			if decodeErr == nil && parsed.Found {
				p := parsed.Source
				if p.ID == "" {
					p.ID = identityID
				}
				return &p, nil
			}
		} else if s.Logger != nil {
			s.Logger.WithError(err).WithField("identity_id", identityID).Warn("es get failed")
		}
	}

	d, err := s.Store.Peek(ctx, identityID)
	if err != nil {
		return nil, err
	}
	echo := d.Echo(identityID)
	return &echo, nil
}
