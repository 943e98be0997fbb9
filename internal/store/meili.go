package store

import (
	"context"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

// DefaultIndex is used when no index name is configured
const DefaultIndex = "hook-events"

// MeiliStore implements EventStore on MeiliSearch. Creating one does no I/O;
// the index is created on first write if it does not exist.
type MeiliStore struct {
	client    meilisearch.ServiceManager
	endpoint  string
	indexName string
}

// NewMeiliStore creates a store for the given instance and index
func NewMeiliStore(endpoint, apiKey, indexName string) *MeiliStore {
	if indexName == "" {
		indexName = DefaultIndex
	}
	return &MeiliStore{
		client:    meilisearch.New(endpoint, meilisearch.WithAPIKey(apiKey)),
		endpoint:  endpoint,
		indexName: indexName,
	}
}

// IndexName returns the target index
func (s *MeiliStore) IndexName() string {
	return s.indexName
}

// EnsureIndex checks connectivity, creates the index and applies search
// settings, waiting for each settings task to finish.
func (s *MeiliStore) EnsureIndex() error {
	if !s.client.IsHealthy() {
		return fmt.Errorf("meilisearch at %s is not healthy", s.endpoint)
	}

	// CreateIndex is idempotent; an existing index resolves the task as failed
	// with index_already_exists, which is fine.
	if _, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.indexName,
		PrimaryKey: "id",
	}); err != nil {
		return fmt.Errorf("create index %q: %w", s.indexName, err)
	}

	index := s.client.Index(s.indexName)

	taskInfo, err := index.UpdateSearchableAttributes(&[]string{
		"hook_type",
		"tool_name",
		"session_id",
		"prompt",
		"file_path",
		"data_flat",
	})
	if err != nil {
		return fmt.Errorf("update searchable attributes: %w", err)
	}
	if err := s.waitForSettingsTask(taskInfo, "searchable attributes"); err != nil {
		return err
	}

	filterAttrs := []interface{}{
		"hook_type",
		"producer",
		"session_id",
		"tool_name",
		"timestamp_unix",
		"file_path",
		"cwd",
	}
	taskInfo, err = index.UpdateFilterableAttributes(&filterAttrs)
	if err != nil {
		return fmt.Errorf("update filterable attributes: %w", err)
	}
	if err := s.waitForSettingsTask(taskInfo, "filterable attributes"); err != nil {
		return err
	}

	taskInfo, err = index.UpdateSortableAttributes(&[]string{"timestamp_unix"})
	if err != nil {
		return fmt.Errorf("update sortable attributes: %w", err)
	}
	return s.waitForSettingsTask(taskInfo, "sortable attributes")
}

func (s *MeiliStore) waitForSettingsTask(taskInfo *meilisearch.TaskInfo, name string) error {
	task, err := s.client.WaitForTask(taskInfo.TaskUID, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", name, err)
	}
	if task.Status == meilisearch.TaskStatusFailed {
		return fmt.Errorf("%s task failed: %s", name, task.Error.Message)
	}
	return nil
}

// Index enqueues a document. MeiliSearch indexes asynchronously, so an error
// means only that the enqueue request failed.
func (s *MeiliStore) Index(ctx context.Context, doc Document) error {
	pk := "id"
	_, err := s.client.Index(s.indexName).AddDocumentsWithContext(ctx, []Document{doc}, &meilisearch.DocumentOptions{
		PrimaryKey: &pk,
	})
	if err != nil {
		return fmt.Errorf("index document %s: %w", doc.ID, err)
	}
	return nil
}

// Close is a no-op; the SDK's HTTP client holds nothing that needs releasing.
func (s *MeiliStore) Close() error {
	return nil
}
