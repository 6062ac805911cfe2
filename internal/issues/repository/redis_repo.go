package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
	"github.com/redis/go-redis/v9"
)

const (
	projectSetKey    = "issues:projects" // Set of project names
	projectKeyPrefix = "issues:project:" // issues:project:{name}:ids and issues:project:{name}:issue:{id}, parts escaped
	maxTxRetries     = 5
)

// RedisRepository stores issues in Redis. Each project keeps an ordered list
// of issue IDs next to one JSON value per issue.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a new RedisRepository
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// List returns the matching issues in insertion order
func (r *RedisRepository) List(ctx context.Context, project string, f domain.Filter) ([]domain.Issue, error) {
	ids, err := r.client.LRange(ctx, r.idsKey(project), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list issue ids: %w", err)
	}

	out := make([]domain.Issue, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.issueKey(project, id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get issues: %w", err)
	}

	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			// deleted between LRANGE and MGET
			continue
		}
		var issue domain.Issue
		if err := json.Unmarshal([]byte(data), &issue); err != nil {
			return nil, fmt.Errorf("failed to unmarshal issue: %w", err)
		}
		if f.Matches(issue) {
			out = append(out, issue)
		}
	}
	return out, nil
}

// Create stores the issue and appends its ID to the project list
func (r *RedisRepository) Create(ctx context.Context, project string, issue *domain.Issue) error {
	data, err := json.Marshal(issue)
	if err != nil {
		return fmt.Errorf("failed to marshal issue: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, projectSetKey, project)
	pipe.Set(ctx, r.issueKey(project, issue.ID), data, 0)
	pipe.RPush(ctx, r.idsKey(project), issue.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	return nil
}

// Update patches the stored issue inside a WATCH transaction
func (r *RedisRepository) Update(ctx context.Context, project, id string, patch domain.Patch, now time.Time) (*domain.Issue, error) {
	key := r.issueKey(project, id)
	idsKey := r.idsKey(project)
	var updated domain.Issue

	txf := func(tx *redis.Tx) error {
		if err := r.checkMember(ctx, tx, idsKey, id); err != nil {
			return err
		}

		data, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return domain.ErrIssueNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get issue: %w", err)
		}

		var issue domain.Issue
		if err := json.Unmarshal([]byte(data), &issue); err != nil {
			return fmt.Errorf("failed to unmarshal issue: %w", err)
		}
		patch.Apply(&issue, now)

		payload, err := json.Marshal(issue)
		if err != nil {
			return fmt.Errorf("failed to marshal issue: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err == nil {
			updated = issue
		}
		return err
	}

	if err := r.watch(ctx, txf, key, idsKey); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the issue and its entry in the project list
func (r *RedisRepository) Delete(ctx context.Context, project, id string) error {
	key := r.issueKey(project, id)
	idsKey := r.idsKey(project)

	txf := func(tx *redis.Tx) error {
		if err := r.checkMember(ctx, tx, idsKey, id); err != nil {
			return err
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.LRem(ctx, idsKey, 1, id)
			return nil
		})
		return err
	}

	return r.watch(ctx, txf, key, idsKey)
}

// EnsureProject registers the project name
func (r *RedisRepository) EnsureProject(ctx context.Context, project string) error {
	if err := r.client.SAdd(ctx, projectSetKey, project).Err(); err != nil {
		return fmt.Errorf("failed to register project: %w", err)
	}
	return nil
}

// Projects lists known projects with their issue counts
func (r *RedisRepository) Projects(ctx context.Context) ([]domain.ProjectSummary, error) {
	names, err := r.client.SMembers(ctx, projectSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	sort.Strings(names)

	pipe := r.client.Pipeline()
	counts := make([]*redis.IntCmd, len(names))
	for i, name := range names {
		counts[i] = pipe.LLen(ctx, r.idsKey(name))
	}
	if len(names) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to count issues: %w", err)
		}
	}

	out := make([]domain.ProjectSummary, len(names))
	for i, name := range names {
		out[i] = domain.ProjectSummary{Name: name, IssueCount: int(counts[i].Val())}
	}
	return out, nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// checkMember returns ErrIssueNotFound unless id is listed in the project.
func (r *RedisRepository) checkMember(ctx context.Context, tx *redis.Tx, idsKey, id string) error {
	err := tx.LPos(ctx, idsKey, id, redis.LPosArgs{}).Err()
	if errors.Is(err, redis.Nil) {
		return domain.ErrIssueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up issue id: %w", err)
	}
	return nil
}

// watch runs txf under WATCH, retrying when another client touched the keys.
func (r *RedisRepository) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("transaction aborted after %d retries: %w", maxTxRetries, redis.TxFailedErr)
}

// Helper methods for key generation. Names and ids are escaped so a ':'
// inside them cannot reach another project's keys.
func (r *RedisRepository) idsKey(project string) string {
	return fmt.Sprintf("%s%s:ids", projectKeyPrefix, url.QueryEscape(project))
}

func (r *RedisRepository) issueKey(project, id string) string {
	return fmt.Sprintf("%s%s:issue:%s", projectKeyPrefix, url.QueryEscape(project), url.QueryEscape(id))
}
