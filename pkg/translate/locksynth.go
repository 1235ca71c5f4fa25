package translate

import (
	"errors"
	"fmt"

	"github.com/tsanders-rh/ops-translate-sub001/pkg/models"
)

// Static error variables for linter compliance.
var (
	ErrUnknownLockBackend = errors.New("unknown lock backend")
)

const lockRetryDelaySeconds = 5

// lockRetries derives the acquire retry budget from the source timeout,
// with a floor so very short timeouts still get a usable number of attempts.
func lockRetries(timeoutSeconds int) int {
	retries := timeoutSeconds / lockRetryDelaySeconds
	if retries < 12 {
		return 12
	}

	return retries
}

// LockBackend produces the acquire and release task structures for one
// locking strategy. The retries and delays in the generated tasks are
// properties of the target runtime's execution, not of this engine.
type LockBackend interface {
	Name() string
	AcquireTasks(p *models.LockPattern) []*models.Task
	ReleaseTasks(p *models.LockPattern) []*models.Task
}

// NewLockBackend selects a backend strategy by name. An unsupported name is
// a configuration error at construction time, not a deferred failure.
func NewLockBackend(name string) (LockBackend, error) {
	switch name {
	case "redis":
		return &redisLockBackend{}, nil
	case "consul":
		return &consulLockBackend{}, nil
	case "file":
		return &fileLockBackend{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: redis, consul, file)", ErrUnknownLockBackend, name)
	}
}

// SynthesizeLock wraps already-translated work tasks in a guarded structure:
// the primary section acquires the lock and runs the work, the always
// section releases it.
func SynthesizeLock(backend LockBackend, p *models.LockPattern, work []*models.Task) *models.Task {
	block := append(backend.AcquireTasks(p), work...)

	return &models.Task{
		Name:   "Locked section: " + p.Resource,
		Block:  block,
		Always: backend.ReleaseTasks(p),
	}
}

// redisLockBackend uses a single-call key/value store with an atomic
// set-if-absent plus expiry.
type redisLockBackend struct{}

func (b *redisLockBackend) Name() string { return "redis" }

func (b *redisLockBackend) AcquireTasks(p *models.LockPattern) []*models.Task {
	return []*models.Task{{
		Name:   "Acquire lock " + p.Resource,
		Action: "ansible.builtin.command",
		Args: map[string]any{
			"cmd": fmt.Sprintf("redis-cli SET lock:%s {{ inventory_hostname }} NX EX %d",
				p.Resource, p.TimeoutSeconds),
		},
		Register: "lock_acquire",
		Retries:  lockRetries(p.TimeoutSeconds),
		Delay:    lockRetryDelaySeconds,
		Until:    "lock_acquire.stdout == 'OK'",
	}}
}

func (b *redisLockBackend) ReleaseTasks(p *models.LockPattern) []*models.Task {
	return []*models.Task{{
		Name:   "Release lock " + p.Resource,
		Action: "ansible.builtin.command",
		Args: map[string]any{
			"cmd": "redis-cli DEL lock:" + p.Resource,
		},
	}}
}

// consulLockBackend uses a session-based store: an explicit session-creation
// step precedes lock acquisition and an explicit teardown step releases it.
type consulLockBackend struct{}

func (b *consulLockBackend) Name() string { return "consul" }

func (b *consulLockBackend) AcquireTasks(p *models.LockPattern) []*models.Task {
	return []*models.Task{
		{
			Name:   "Create lock session for " + p.Resource,
			Action: "community.general.consul_session",
			Args: map[string]any{
				"state": "present",
				"name":  "lock-" + p.Resource,
				"ttl":   p.TimeoutSeconds,
			},
			Register: "lock_session",
		},
		{
			Name:   "Acquire lock " + p.Resource,
			Action: "community.general.consul_kv",
			Args: map[string]any{
				"key":     "locks/" + p.Resource,
				"value":   "{{ inventory_hostname }}",
				"session": "{{ lock_session.session_id }}",
				"state":   "acquire",
			},
			Register: "lock_acquire",
			Retries:  lockRetries(p.TimeoutSeconds),
			Delay:    lockRetryDelaySeconds,
			Until:    "lock_acquire is succeeded",
		},
	}
}

func (b *consulLockBackend) ReleaseTasks(p *models.LockPattern) []*models.Task {
	return []*models.Task{
		{
			Name:   "Release lock " + p.Resource,
			Action: "community.general.consul_kv",
			Args: map[string]any{
				"key":     "locks/" + p.Resource,
				"session": "{{ lock_session.session_id }}",
				"state":   "release",
			},
		},
		{
			Name:   "Destroy lock session for " + p.Resource,
			Action: "community.general.consul_session",
			Args: map[string]any{
				"state": "absent",
				"id":    "{{ lock_session.session_id }}",
			},
		},
	}
}

// fileLockBackend uses a filesystem marker. It is not distributed and is
// unsafe across shared filesystems; it exists for single-host targets only.
type fileLockBackend struct{}

func (b *fileLockBackend) Name() string { return "file" }

func (b *fileLockBackend) AcquireTasks(p *models.LockPattern) []*models.Task {
	return []*models.Task{{
		Name:   "Acquire lock " + p.Resource,
		Action: "ansible.builtin.command",
		Args: map[string]any{
			"cmd": fmt.Sprintf("mkdir /var/lock/ops-translate-%s", p.Resource),
		},
		Register: "lock_acquire",
		Retries:  lockRetries(p.TimeoutSeconds),
		Delay:    lockRetryDelaySeconds,
		Until:    "lock_acquire is succeeded",
		Comment:  "filesystem marker lock: single host only, unsafe on shared filesystems",
	}}
}

func (b *fileLockBackend) ReleaseTasks(p *models.LockPattern) []*models.Task {
	return []*models.Task{{
		Name:   "Release lock " + p.Resource,
		Action: "ansible.builtin.file",
		Args: map[string]any{
			"path":  fmt.Sprintf("/var/lock/ops-translate-%s", p.Resource),
			"state": "absent",
		},
	}}
}
