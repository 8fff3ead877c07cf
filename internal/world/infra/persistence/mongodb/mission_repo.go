package mongodb

import (
	"context"
	"errors"
	"time"

	"Aethelgard/internal/world/domain"
	"Aethelgard/internal/world/infra/persistence/model"
	"Aethelgard/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const missionCollectionName = "missions"

type MissionRepository struct {
	coll *mongo.Collection
}

func NewMissionRepository(db *mongo.Database) *MissionRepository {
	return &MissionRepository{coll: db.Collection(missionCollectionName)}
}

func (r *MissionRepository) Insert(ctx context.Context, m *domain.WorldMission) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb mission collection is nil")
	}
	if _, err := r.coll.InsertOne(ctx, model.FromMission(m)); err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}

func (r *MissionRepository) LoadMission(ctx context.Context, id string) (*domain.WorldMission, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb mission collection is nil")
	}

	var doc model.MissionDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMissionNotFound.WithData("mission_id", id)
		}
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return doc.ToMission(), nil
}

func (r *MissionRepository) LoadByOwner(ctx context.Context, ownerID int) ([]*domain.WorldMission, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *MissionRepository) LoadDueArrivals(ctx context.Context, now time.Time) ([]*domain.WorldMission, error) {
	return r.find(ctx, bson.M{
		"status":       string(domain.StatusOutgoing),
		"arrival_time": bson.M{"$lte": now},
	})
}

func (r *MissionRepository) LoadDueReturns(ctx context.Context, now time.Time) ([]*domain.WorldMission, error) {
	return r.find(ctx, bson.M{
		"status":      string(domain.StatusReturning),
		"return_time": bson.M{"$lte": now},
	})
}

func (r *MissionRepository) find(ctx context.Context, filter bson.M) ([]*domain.WorldMission, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb mission collection is nil")
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	defer cur.Close(ctx)

	var out []*domain.WorldMission
	for cur.Next(ctx) {
		var doc model.MissionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errx.ErrUnavailable.WithCause(err)
		}
		out = append(out, doc.ToMission())
	}
	if err := cur.Err(); err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return out, nil
}

func (r *MissionRepository) Save(ctx context.Context, m *domain.WorldMission) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb mission collection is nil")
	}

	doc := model.FromMission(m)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}
