package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/mushroomhunter/backend/internal/common"
	"github.com/mushroomhunter/backend/internal/domain/offlinequeue"
	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/internal/model"
	"github.com/mushroomhunter/backend/internal/repository"
	"github.com/mushroomhunter/backend/pkg/enum"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/idutil"
	"github.com/mushroomhunter/backend/pkg/storage"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type OfflineDomain interface {
	EnqueueAction(context.Context, *model.EnqueueActionRequest) (*model.EnqueueActionResponse, error)
	SetConnectivity(context.Context, *model.SetConnectivityRequest) (*model.SetConnectivityResponse, error)
	GetQueue(context.Context, *model.GetQueueRequest) (*model.GetQueueResponse, error)

	// FlushOnline processes the queues of every online user with pending
	// actions.
	FlushOnline(context.Context) error
}

type offlineDomain struct {
	actionRepo       repository.QueuedActionRepository
	connectivityRepo repository.ConnectivityRepository
	userRepo         repository.UserRepository
	processor        *offlinequeue.Processor
	huntDomain       HuntDomain
	storage          storage.Storage
	idGenerator      *idutil.Generator
}

func NewOfflineDomain(
	actionRepo repository.QueuedActionRepository,
	connectivityRepo repository.ConnectivityRepository,
	userRepo repository.UserRepository,
	processor *offlinequeue.Processor,
	huntDomain HuntDomain,
	storage storage.Storage,
	idGenerator *idutil.Generator,
) *offlineDomain {
	d := &offlineDomain{
		actionRepo:       actionRepo,
		connectivityRepo: connectivityRepo,
		userRepo:         userRepo,
		processor:        processor,
		huntDomain:       huntDomain,
		storage:          storage,
		idGenerator:      idGenerator,
	}

	processor.Register(entity.ActionCreateSpot, d.replayCreateSpot)
	processor.Register(entity.ActionUpdateProfile, d.replayUpdateProfile)
	processor.Register(entity.ActionUploadImage, d.replayUploadImage)

	return d
}

func (d *offlineDomain) EnqueueAction(
	ctx context.Context, req *model.EnqueueActionRequest,
) (*model.EnqueueActionResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	actionType, err := enum.ToEnum[entity.ActionType](req.Type)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid action type: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid action type %s", req.Type)
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	action := &entity.QueuedAction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: d.idGenerator.Next()},
		UserID:        userID,
		Type:          actionType,
		Data:          req.Data,
		Timestamp:     timestamp,
	}

	if err := d.actionRepo.Create(ctx, action); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create queued action: %v", err)
		return nil, errorx.Unknown
	}

	online, err := d.isOnline(ctx, userID)
	if err != nil {
		return nil, err
	}

	if online {
		d.processor.Trigger(ctx, userID)
	}

	return &model.EnqueueActionResponse{ID: convertQueuedAction(action).ID}, nil
}

func (d *offlineDomain) SetConnectivity(
	ctx context.Context, req *model.SetConnectivityRequest,
) (*model.SetConnectivityResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	wasOnline, err := d.isOnline(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = d.connectivityRepo.Upsert(ctx, &entity.Connectivity{
		UserID:    userID,
		Online:    req.Online,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update connectivity: %v", err)
		return nil, errorx.Unknown
	}

	if !wasOnline && req.Online {
		d.processor.Trigger(ctx, userID)
	}

	return &model.SetConnectivityResponse{}, nil
}

func (d *offlineDomain) GetQueue(
	ctx context.Context, req *model.GetQueueRequest,
) (*model.GetQueueResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Unknown user")
	}

	actions, err := d.actionRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get queued actions: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.QueuedAction{}
	for i := range actions {
		result = append(result, convertQueuedAction(&actions[i]))
	}

	return &model.GetQueueResponse{Actions: result}, nil
}

func (d *offlineDomain) FlushOnline(ctx context.Context) error {
	userIDs, err := d.actionRepo.GetPendingUserIDs(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users with pending actions: %v", err)
		return errorx.Unknown
	}

	common.PromGauges[common.OfflinePendingUsers].WithLabelValues().Set(float64(len(userIDs)))

	for _, userID := range userIDs {
		online, err := d.isOnline(ctx, userID)
		if err != nil {
			return err
		}

		if !online {
			continue
		}

		if _, err := d.processor.Process(ctx, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot process queue of user %s: %v", userID, err)
		}
	}

	return nil
}

// isOnline treats a user who never reported connectivity as offline.
func (d *offlineDomain) isOnline(ctx context.Context, userID string) (bool, error) {
	connectivity, err := d.connectivityRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get connectivity: %v", err)
		return false, errorx.Unknown
	}

	return connectivity.Online, nil
}

func (d *offlineDomain) replayCreateSpot(ctx context.Context, action *entity.QueuedAction) error {
	req := model.RecordFindRequest{}
	if err := decodeActionData(action.Data, &req); err != nil {
		return err
	}

	if req.FoundAt.IsZero() {
		req.FoundAt = action.Timestamp
	}

	_, err := d.huntDomain.RecordFind(xcontext.WithRequestUserID(ctx, action.UserID), &req)
	return err
}

type profileUpdate struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func (d *offlineDomain) replayUpdateProfile(ctx context.Context, action *entity.QueuedAction) error {
	profile := profileUpdate{}
	if err := decodeActionData(action.Data, &profile); err != nil {
		return err
	}

	user := &entity.User{
		ID:        action.UserID,
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
	}

	// Empty fields of an existing profile are kept.
	if _, err := d.userRepo.GetByID(ctx, action.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d.userRepo.Upsert(ctx, user)
		}

		return err
	}

	return d.userRepo.UpdateByID(ctx, action.UserID, user)
}

type imageUpload struct {
	FileName string `json:"file_name"`
	Mime     string `json:"mime"`
	// Data is encoded in standard base64.
	Data string `json:"data"`
}

func (d *offlineDomain) replayUploadImage(ctx context.Context, action *entity.QueuedAction) error {
	image := imageUpload{}
	if err := decodeActionData(action.Data, &image); err != nil {
		return err
	}

	data, err := base64.StdEncoding.DecodeString(image.Data)
	if err != nil {
		return fmt.Errorf("invalid image data: %w", err)
	}

	resp, err := d.storage.Upload(ctx, &storage.UploadObject{
		Prefix:   fmt.Sprintf("users/%s", action.UserID),
		FileName: image.FileName,
		Mime:     image.Mime,
		Data:     data,
	})
	if err != nil {
		return err
	}

	xcontext.Logger(ctx).Debugf("Uploaded image of user %s to %s", action.UserID, resp.Url)
	return nil
}

func decodeActionData(data entity.Map, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		Result:           output,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]any(data))
}
