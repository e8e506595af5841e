package offlinequeue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mushroomhunter/backend/config"
	"github.com/mushroomhunter/backend/internal/common"
	"github.com/mushroomhunter/backend/internal/domain/event"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/pubsub"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
)

// Handler replays one action against the system. An error makes the action
// retried on the next pass.
type Handler func(ctx context.Context, action *entity.QueuedAction) error

// Result summarizes a processing pass.
type Result struct {
	// Skipped is true if another pass of the same user was running.
	Skipped   bool
	Succeeded int
	Retried   int
	Dropped   int
}

var errPending = errors.New("some actions are still pending")

type Processor struct {
	cfg        config.OfflineQueueConfigs
	actionRepo repository.QueuedActionRepository
	publisher  pubsub.Publisher
	topic      string

	// This field is only written at initialization. After that, it is readonly.
	handlers map[entity.ActionType]Handler
	inflight *xsync.MapOf[string, struct{}]
}

func NewProcessor(
	cfg config.OfflineQueueConfigs,
	actionRepo repository.QueuedActionRepository,
	publisher pubsub.Publisher,
	topic string,
) *Processor {
	return &Processor{
		cfg:        cfg,
		actionRepo: actionRepo,
		publisher:  publisher,
		topic:      topic,
		handlers:   make(map[entity.ActionType]Handler),
		inflight:   xsync.NewMapOf[struct{}](),
	}
}

func (p *Processor) Register(actionType entity.ActionType, handler Handler) {
	p.handlers[actionType] = handler
}

// Process runs one pass over the pending actions of the user, oldest first. It
// returns immediately if a pass of this user is already running.
func (p *Processor) Process(ctx context.Context, userID string) (Result, error) {
	if _, running := p.inflight.LoadOrStore(userID, struct{}{}); running {
		return Result{Skipped: true}, nil
	}
	defer p.inflight.Delete(userID)

	actions, err := p.actionRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get queued actions: %v", err)
		return Result{}, errorx.Unknown
	}

	result := Result{}
	for i := range actions {
		action := &actions[i]
		handleErr := p.handle(ctx, action)
		if handleErr == nil {
			if err := p.actionRepo.Delete(ctx, action.ID); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot delete processed action: %v", err)
				return result, errorx.Unknown
			}

			common.PromCounters[common.OfflineActionTotal].
				WithLabelValues(string(action.Type), "succeeded").Inc()
			result.Succeeded++
			continue
		}

		action.RetryCount++
		action.LastError = handleErr.Error()
		if action.RetryCount >= p.cfg.MaxRetries {
			if err := p.actionRepo.Delete(ctx, action.ID); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot delete exhausted action: %v", err)
				return result, errorx.Unknown
			}

			xcontext.Logger(ctx).Warnf("Drop action %d of user %s after %d attempts: %v",
				action.ID, userID, action.RetryCount, handleErr)

			event.Publish(ctx, p.publisher, p.topic, event.New(
				event.OfflineActionFailed, userID, event.OfflineActionFailedPayload{
					ActionID:   action.ID,
					ActionType: string(action.Type),
					RetryCount: action.RetryCount,
					Error:      action.LastError,
				}))

			common.PromCounters[common.OfflineActionTotal].
				WithLabelValues(string(action.Type), "dropped").Inc()
			result.Dropped++
			continue
		}

		if err := p.actionRepo.UpdateRetry(ctx, action.ID, action.RetryCount, action.LastError); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update retry count: %v", err)
			return result, errorx.Unknown
		}

		common.PromCounters[common.OfflineActionTotal].
			WithLabelValues(string(action.Type), "retried").Inc()
		result.Retried++
	}

	return result, nil
}

// Flush runs passes until the queue of the user is drained, waiting with an
// exponential backoff between passes. Every pass consumes one attempt of each
// remaining action, so it stops after at most MaxRetries passes.
func (p *Processor) Flush(ctx context.Context, userID string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.InitialBackoff.Duration
	b.MaxInterval = p.cfg.MaxBackoff.Duration
	b.MaxElapsedTime = 0

	op := func() error {
		result, err := p.Process(ctx, userID)
		if err != nil {
			return backoff.Permanent(err)
		}

		if result.Skipped || result.Retried == 0 {
			return nil
		}

		return errPending
	}

	notify := func(err error, next time.Duration) {
		xcontext.Logger(ctx).Debugf("Queue of user %s is not drained (%v), retry in %s", userID, err, next)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.cfg.MaxRetries)), ctx), notify)
	if errors.Is(err, errPending) {
		return nil
	}

	return err
}

// Trigger flushes the queue of the user in background.
func (p *Processor) Trigger(ctx context.Context, userID string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := p.Flush(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot flush queue of user %s: %v", userID, err)
		}
	}()
}

func (p *Processor) handle(ctx context.Context, action *entity.QueuedAction) (err error) {
	handler, ok := p.handlers[action.Type]
	if !ok {
		return fmt.Errorf("no handler for action type %s", action.Type)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return handler(ctx, action)
}
