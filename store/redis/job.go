package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/page"
)

// casScript performs the version check, the status write, and the version
// bump as one atomic step. ARGV[3] is the new timeout; an empty string
// preserves the stored value.
var casScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 'missing'
end
if redis.call('HGET', KEYS[1], 'version') ~= ARGV[1] then
	return 'conflict'
end
redis.call('HSET', KEYS[1],
	'status', ARGV[2],
	'version', tostring(tonumber(ARGV[1]) + 1),
	'updated_at', ARGV[4])
if ARGV[3] ~= '' then
	redis.call('HSET', KEYS[1], 'timeout', ARGV[3])
end
return 'ok'
`)

// CreateJob stores the job as a Hash and tracks its ID for enumeration.
func (s *Store) CreateJob(ctx context.Context, j *job.Job) error {
	jID := j.ID.String()
	key := jobKey(jID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("qonos/redis: create job check exists: %w", err)
	}
	if exists > 0 {
		return qonos.ErrJobAlreadyExists
	}

	fields, err := jobToMap(j)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.SAdd(ctx, jobIDsKey, jID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("qonos/redis: create job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *Store) GetJob(ctx context.Context, jobID id.JobID) (*job.Job, error) {
	return s.getJobByKey(ctx, jobKey(jobID.String()))
}

// ListJobs returns jobs after the marker in ID order.
func (s *Store) ListJobs(ctx context.Context, p page.Params) ([]*job.Job, error) {
	ids, err := s.client.SMembers(ctx, jobIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: list jobs smembers: %w", err)
	}

	ids = pageIDs(ids, p)

	jobs := make([]*job.Job, 0, len(ids))
	for _, jID := range ids {
		j, getErr := s.getJobByKey(ctx, jobKey(jID))
		if getErr != nil {
			continue // entry removed between SMEMBERS and HGETALL
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// DeleteJob removes a job by ID. The fault index for the job survives.
func (s *Store) DeleteJob(ctx context.Context, jobID id.JobID) error {
	jID := jobID.String()
	key := jobKey(jID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("qonos/redis: delete job check exists: %w", err)
	}
	if exists == 0 {
		return qonos.ErrJobNotFound
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, jobIDsKey, jID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("qonos/redis: delete job: %w", err)
	}
	return nil
}

// CompareAndSwapStatus runs the CAS Lua script and re-reads the record.
func (s *Store) CompareAndSwapStatus(ctx context.Context, jobID id.JobID, expectedVersion int64, status job.Status, timeout *time.Time) (*job.Job, error) {
	key := jobKey(jobID.String())

	timeoutStr := ""
	if timeout != nil {
		timeoutStr = timeout.UTC().Format(time.RFC3339Nano)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := casScript.Run(ctx, s.client, []string{key},
		strconv.FormatInt(expectedVersion, 10), string(status), timeoutStr, now,
	).Text()
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: swap job status: %w", err)
	}

	switch res {
	case "ok":
		return s.getJobByKey(ctx, key)
	case "conflict":
		return nil, qonos.ErrVersionConflict
	case "missing":
		return nil, qonos.ErrJobNotFound
	default:
		return nil, fmt.Errorf("qonos/redis: swap job status: unexpected script result %q", res)
	}
}

// ── helpers ──

// pageIDs sorts the ID set and applies marker and limit. TypeID strings
// sort in creation order, so a plain string sort is the paging order.
func pageIDs(ids []string, p page.Params) []string {
	sort.Strings(ids)
	if p.Marker != "" {
		i := sort.SearchStrings(ids, p.Marker)
		if i < len(ids) && ids[i] == p.Marker {
			i++
		}
		ids = ids[i:]
	}
	if p.Limit > 0 && len(ids) > p.Limit {
		ids = ids[:p.Limit]
	}
	return ids
}

func jobToMap(j *job.Job) (map[string]interface{}, error) {
	meta, err := msgpack.Marshal(j.Metadata)
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: encode job metadata: %w", err)
	}

	m := map[string]interface{}{
		"id":          j.ID.String(),
		"schedule_id": j.ScheduleID.String(),
		"tenant_id":   j.TenantID,
		"action":      j.Action,
		"status":      string(j.Status),
		"metadata":    string(meta),
		"version":     strconv.FormatInt(j.Version, 10),
		"created_at":  j.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  j.UpdatedAt.Format(time.RFC3339Nano),
	}
	if !j.WorkerID.IsNil() {
		m["worker_id"] = j.WorkerID.String()
	}
	if j.Timeout != nil {
		m["timeout"] = j.Timeout.UTC().Format(time.RFC3339Nano)
	}
	return m, nil
}

func (s *Store) getJobByKey(ctx context.Context, key string) (*job.Job, error) {
	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: get job: %w", err)
	}
	if len(vals) == 0 {
		return nil, qonos.ErrJobNotFound
	}
	return mapToJob(vals)
}

func mapToJob(m map[string]string) (*job.Job, error) {
	jID, err := id.ParseJobID(m["id"])
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: parse job id: %w", err)
	}
	schedID, err := id.ParseScheduleID(m["schedule_id"])
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: parse schedule id: %w", err)
	}

	version, _ := strconv.ParseInt(m["version"], 10, 64)              //nolint:errcheck // best-effort parse from trusted Redis data
	createdAt, _ := time.Parse(time.RFC3339Nano, m["created_at"])     //nolint:errcheck // best-effort parse from trusted Redis data
	updatedAt, _ := time.Parse(time.RFC3339Nano, m["updated_at"])     //nolint:errcheck // best-effort parse from trusted Redis data

	var meta qonos.Metadata
	if raw := m["metadata"]; raw != "" {
		if err := msgpack.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, fmt.Errorf("qonos/redis: decode job metadata: %w", err)
		}
	}

	j := &job.Job{
		ID:         jID,
		ScheduleID: schedID,
		TenantID:   m["tenant_id"],
		Action:     m["action"],
		Status:     job.Status(m["status"]),
		Metadata:   meta,
		Version:    version,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}

	if wid := m["worker_id"]; wid != "" {
		j.WorkerID, _ = id.ParseWorkerID(wid) //nolint:errcheck // best-effort parse from trusted Redis data
	}
	if v := m["timeout"]; v != "" {
		t, _ := time.Parse(time.RFC3339Nano, v) //nolint:errcheck // best-effort parse from trusted Redis data
		j.Timeout = &t
	}

	return j, nil
}
