// audit/repository.go
package audit

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/goccy/go-json"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

type Repository interface {
	EnsureIndex(ctx context.Context) error
	IndexChange(ctx context.Context, rec *model.ChangeRecord) error
	QueryChanges(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
	index    string
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL, index string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient, index: index}, nil
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (r *ElasticsearchRepository) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{r.index}}.Do(ctx, r.esClient)
	if err != nil {
		return unavailable(err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, r.esClient)
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()

	// A concurrent creator may have won the race.
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("error creating index %s: %s", r.index, res.String())
	}
	return nil
}

// IndexChange stores a change record under its own id, so indexing the same
// record twice leaves a single document.
func (r *ElasticsearchRepository) IndexChange(ctx context.Context, rec *model.ChangeRecord) error {
	data, err := json.Marshal(NewChangeDocument(rec))
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: rec.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}
	return nil
}

// QueryChanges searches change records with the same filter and ordering
// semantics as the store. Pages continue with search_after, so deep pages
// stay within the index's result window.
func (r *ElasticsearchRepository) QueryChanges(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error) {
	if !sort.Valid() {
		return nil, echo_errors.ErrInvalidSort
	}
	if limit <= 0 {
		limit = 10
	}

	body, err := json.Marshal(buildSearchQuery(filter, sort, limit, after))
	if err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(r.index),
		r.esClient.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, unavailable(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return []*model.ChangeRecord{}, nil
		}
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ChangeDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	records := make([]*model.ChangeRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		records = append(records, hit.Source.Record())
	}
	return records, nil
}

func buildSearchQuery(filter model.ChangeFilter, sort model.ChangeSort, limit int, after *model.ChangeRecord) map[string]any {
	must := []any{}
	if filter.ResourceType != "" {
		must = append(must, map[string]any{"term": map[string]any{"resource_type": string(filter.ResourceType)}})
	}
	if filter.ResourceID != "" {
		must = append(must, map[string]any{"term": map[string]any{"resource_id": filter.ResourceID}})
	}
	if filter.PrincipalID != "" {
		must = append(must, map[string]any{"term": map[string]any{"principal_id": filter.PrincipalID}})
	}
	if filter.From != nil || filter.To != nil {
		bounds := map[string]any{}
		if filter.From != nil {
			bounds["gte"] = filter.From.UTC().Format(time.RFC3339Nano)
		}
		if filter.To != nil {
			bounds["lte"] = filter.To.UTC().Format(time.RFC3339Nano)
		}
		must = append(must, map[string]any{"range": map[string]any{"changed_at": bounds}})
	}

	query := map[string]any{"match_all": map[string]any{}}
	if len(must) > 0 {
		query = map[string]any{"bool": map[string]any{"filter": must}}
	}

	search := map[string]any{
		"query": query,
		"size":  limit,
		"sort": []any{
			map[string]any{sortFields[sort.Field]: map[string]any{"order": string(sort.Direction)}},
			map[string]any{"seq": map[string]any{"order": "asc"}},
		},
	}
	if after != nil {
		search["search_after"] = []any{searchAfterValue(sort, after), after.Seq}
	}
	return search
}

// searchAfterValue renders the cursor's sort value the way the index reports
// it: dates as epoch milliseconds, keywords as strings.
func searchAfterValue(sort model.ChangeSort, after *model.ChangeRecord) any {
	if t, ok := sort.Value(after).(time.Time); ok {
		return t.UnixMilli()
	}
	return sort.Value(after)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", echo_errors.ErrUnavailable, err)
}
